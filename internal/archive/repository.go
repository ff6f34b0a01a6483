package archive

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("archived order not found")
	ErrDuplicateOrder = errors.New("order already archived")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	SSLMode           string
	MigrationsDirPath string
}

// ArchivedOrder is an order together with the session that placed it
type ArchivedOrder struct {
	SessionID string
	domain.Order
}

type OrderArchive interface {
	Record(ctx context.Context, sessionID string, order domain.Order) error
	GetOrder(ctx context.Context, id string) (*ArchivedOrder, error)
	ListOrdersBySession(ctx context.Context, sessionID string) ([]*ArchivedOrder, error)
	RunMigrations(*Credentials) error
	Close() error
}
