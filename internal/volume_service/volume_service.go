package volume_service

import "github.com/AnishMulay/sandfat/internal/space_service"

// VolumeService is the command surface of a volume: one method per
// command the front ends offer. Implementations serialise every call,
// so a VolumeService is safe for concurrent use.
type VolumeService interface {
	Format(capacityBytes, clusterSize int64) (space_service.Stats, error)
	Stats() (space_service.Stats, error)
	CreateFile(name string, data []byte) ([]int, error)
	CopyFile(src, dest string) ([]int, error)
	DeleteFile(name string) error
	ReadFile(name string) ([]byte, error)
	FileExists(name string) (bool, error)
	ListFiles() ([]string, error)
	ChainOf(name string) ([]int, error)
	SlackOf(name string) (int64, error)
	Check() error
}
