package notifier

import (
	"log/slog"

	"github.com/amishk599/autoapply/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes submitted applications to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each application via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each application with company, title, salary, link and method.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(records []model.ApplicationRecord) error {
	for _, r := range records {
		args := []any{"company", r.CompanyTitle, "title", r.JobTitle, "link", r.WebLink, "method", r.Method}
		if r.Salary != nil {
			args = append(args, "salary", *r.Salary)
		}
		n.logger.Info("application submitted", args...)
	}
	return nil
}
