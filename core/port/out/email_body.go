// Package out defines outbound ports implemented by infrastructure adapters.
package out

import (
	"context"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// EmailBodyRepository stores full message bodies. Headers stay in Postgres;
// bodies live in the document store.
type EmailBodyRepository interface {
	SaveBody(ctx context.Context, body *domain.EmailBody) error
	GetBody(ctx context.Context, emailID int64) (*domain.EmailBody, error)
	DeleteBody(ctx context.Context, emailID int64) error
}
