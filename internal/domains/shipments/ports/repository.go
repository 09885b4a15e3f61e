package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

var ErrNotFound = errors.New("shipment not found")

// Repository is the durable store of shipments. Every call is atomic on its own;
// when ctx carries a transaction opened by a Transactor the call joins it.
type Repository interface {
	// List returns every shipment ordered by id descending.
	List(ctx context.Context) ([]*domain.Shipment, error)
	GetByID(ctx context.Context, id int64) (*domain.Shipment, error)
	// Insert assigns the id and returns the record as persisted.
	Insert(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error)
	// UpdateStatus replaces the status and returns the updated record, or ErrNotFound.
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Shipment, error)
	// Delete reports whether a row existed and was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// Transactor scopes a unit of work. fn runs inside one transaction that is committed when fn
// returns nil and rolled back on error or panic.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
