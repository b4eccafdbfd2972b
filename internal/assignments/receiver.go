package assignments

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ziadkadry99/benchdesk/internal/audit"
)

// Receiver accepts the measures form and stores it.
type Receiver struct {
	store *Store
	audit *audit.Store
	log   *slog.Logger
}

// NewReceiver creates a Receiver. auditStore may be nil.
func NewReceiver(store *Store, auditStore *audit.Store) *Receiver {
	return &Receiver{
		store: store,
		audit: auditStore,
		log:   slog.Default().With("module", "assignments"),
	}
}

// Submit decodes form and creates the company's assignments. It returns the
// number of assignments created.
func (r *Receiver) Submit(ctx context.Context, companyID string, form url.Values) (int, error) {
	subs, err := DecodeForm(form)
	if err != nil {
		return 0, err
	}
	created, err := r.store.CreateFromSubmission(ctx, companyID, subs)
	if err != nil {
		return 0, err
	}

	r.log.Info("assignments created", "company_id", companyID, "submitted", len(subs), "created", len(created))
	if r.audit != nil {
		ids := make([]string, len(created))
		for i, a := range created {
			ids[i] = a.ID
		}
		err := r.audit.Record(ctx, audit.ActionAssignmentsCreated, audit.EntityCompany, companyID,
			fmt.Sprintf("assigned %d measures", len(created)), map[string]any{"assignment_ids": ids})
		if err != nil {
			r.log.Warn("recording activity", "error", err)
		}
	}
	return len(created), nil
}
