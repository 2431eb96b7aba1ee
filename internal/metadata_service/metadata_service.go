package metadata_service

import "github.com/AnishMulay/sandfat/internal/volume"

// MetadataService persists the whole volume state as one document.
// Every save overwrites the previous document completely.
type MetadataService interface {
	SaveState(doc *volume.Document) error
	// LoadState returns ErrNoState when nothing has been saved yet.
	LoadState() (*volume.Document, error)
}
