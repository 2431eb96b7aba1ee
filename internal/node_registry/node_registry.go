package node_registry

// Node is a volume server reachable at Address.
type Node struct {
	ID      string `yaml:"id"`
	Address string `yaml:"address"`
	Healthy bool   `yaml:"healthy"`
}

type NodeRegistry interface {
	RegisterNode(node Node) error
	DeregisterNode(node Node) error
	GetNode(id string) (Node, error)
	GetHealthyNodes() ([]Node, error)
}
