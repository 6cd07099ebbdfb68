package harness

import (
	"github.com/roach88/leprechaun/internal/engine"
	"github.com/roach88/leprechaun/internal/rainbow"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Pairs is the table content in storage order.
	Pairs []rainbow.Pair `json:"pairs"`

	// Report is the run summary; nil when Generate failed before hashing.
	Report *engine.Summary `json:"report,omitempty"`

	// Err is the error Generate returned, if any.
	Err error `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Pairs:  []rainbow.Pair{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
