package file_service

import "github.com/AnishMulay/sandfat/internal/volume"

// FileService maintains the namespace of a volume and the cluster
// chains behind it. Every method receives the volume state explicitly.
// Mutating methods either commit fully (table, namespace, persisted
// document and chunk storage all updated) or leave st exactly as it
// was.
type FileService interface {
	CreateFile(st *volume.State, name string, data []byte) (*volume.FileRecord, error)
	CopyFile(st *volume.State, src, dest string) (*volume.FileRecord, error)
	DeleteFile(st *volume.State, name string) error
	ReadFile(st *volume.State, name string) ([]byte, error)
	FileExists(st *volume.State, name string) (bool, error)
	ListFiles(st *volume.State) ([]string, error)
	ChainOf(st *volume.State, name string) ([]int, error)
}
