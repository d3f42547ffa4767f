/*
validator.go - Facade orchestrating the guards

PURPOSE:
  The only entry point the rest of the system calls. Runs the guards in
  a fixed order for create, update and delete, short-circuiting on the
  first failure. All three operations are pure decision functions: they
  read from the collaborators but perform no writes. The caller persists
  only after validation succeeds.

ORDERING:
  create: workflow (initial state) -> duration -> overlap -> availability
  update: workflow (transition + fields) -> duration -> overlap -> availability
  delete: availability -> deletion

CONCURRENCY:
  Each validation runs synchronously inside the caller's unit of work;
  the guards hold no state between calls. The overlap check is
  read-then-decide: two concurrent creates can each pass and still
  collide at commit. Callers wanting the stronger guarantee hold a lock
  keyed by (project, employee) across validation + write; see
  tracker.TimeRecordService.
*/
package booking

import "context"

// Validator guards every create, update and delete of a time record.
type Validator struct {
	workflow     Workflow
	duration     DurationGuard
	overlap      OverlapGuard
	availability ProjectAvailabilityGuard
	deletion     DeletionGuard
}

// NewValidator wires the guards to their read-only collaborators.
func NewValidator(records IntervalStore, projects ProjectLookup) *Validator {
	return &Validator{
		overlap:      OverlapGuard{Records: records},
		availability: ProjectAvailabilityGuard{Projects: projects},
	}
}

// ValidateCreate decides whether candidate may be persisted as a new
// time record.
func (v *Validator) ValidateCreate(ctx context.Context, candidate TimeRecord) error {
	if err := v.workflow.CheckInitial(candidate.Status); err != nil {
		return err
	}
	if err := v.duration.Check(candidate); err != nil {
		return err
	}
	if err := v.overlap.Check(ctx, candidate); err != nil {
		return err
	}
	return v.availability.Check(ctx, candidate)
}

// ValidateUpdate decides whether current may be replaced by candidate.
// The candidate's id is excluded from overlap comparisons so the record
// can move within its own previous interval.
func (v *Validator) ValidateUpdate(ctx context.Context, current, candidate TimeRecord) error {
	if err := v.workflow.CheckTransition(current.Status, candidate.Status); err != nil {
		return err
	}
	if err := v.workflow.CheckFieldChanges(current, candidate); err != nil {
		return err
	}
	if err := v.duration.Check(candidate); err != nil {
		return err
	}
	if err := v.overlap.Check(ctx, candidate); err != nil {
		return err
	}
	return v.availability.Check(ctx, candidate)
}

// ValidateDelete decides whether current may be removed.
func (v *Validator) ValidateDelete(ctx context.Context, current TimeRecord) error {
	if err := v.availability.Check(ctx, current); err != nil {
		return err
	}
	return v.deletion.Check(current)
}
