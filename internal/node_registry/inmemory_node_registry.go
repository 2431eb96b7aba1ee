package node_registry

import (
	"fmt"
	"sync"
)

// InMemoryNodeRegistry keeps nodes in registration order.
type InMemoryNodeRegistry struct {
	mu    sync.RWMutex
	nodes []Node
}

func NewInMemoryNodeRegistry(nodes ...Node) (*InMemoryNodeRegistry, error) {
	nr := &InMemoryNodeRegistry{
		nodes: []Node{},
	}
	for _, node := range nodes {
		if err := nr.RegisterNode(node); err != nil {
			return nil, err
		}
	}
	return nr, nil
}

func (nr *InMemoryNodeRegistry) RegisterNode(node Node) error {
	if node.ID == "" {
		return ErrInvalidNodeID
	}
	if node.Address == "" {
		return fmt.Errorf("%w: node %s", ErrInvalidNodeAddress, node.ID)
	}

	nr.mu.Lock()
	defer nr.mu.Unlock()
	for _, n := range nr.nodes {
		if n.ID == node.ID {
			return fmt.Errorf("%w: %s", ErrNodeAlreadyExists, node.ID)
		}
	}
	nr.nodes = append(nr.nodes, node)
	return nil
}

func (nr *InMemoryNodeRegistry) DeregisterNode(node Node) error {
	nr.mu.Lock()
	defer nr.mu.Unlock()
	for i, n := range nr.nodes {
		if n.ID == node.ID {
			nr.nodes = append(nr.nodes[:i], nr.nodes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNodeNotFound, node.ID)
}

func (nr *InMemoryNodeRegistry) GetNode(id string) (Node, error) {
	nr.mu.RLock()
	defer nr.mu.RUnlock()
	for _, n := range nr.nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
}

func (nr *InMemoryNodeRegistry) GetHealthyNodes() ([]Node, error) {
	nr.mu.RLock()
	defer nr.mu.RUnlock()
	healthy := make([]Node, 0, len(nr.nodes))
	for _, n := range nr.nodes {
		if n.Healthy {
			healthy = append(healthy, n)
		}
	}
	if len(healthy) == 0 {
		return nil, ErrNoHealthyNodes
	}
	return healthy, nil
}

var _ NodeRegistry = (*InMemoryNodeRegistry)(nil)
