// Package workflow contains the orchestration core: the finite-state
// machine that sequences the research, drafting, and review capabilities,
// routes the reviewer's decision to the matching remediation path, and
// enforces the iteration budget.
//
// The machine is strictly sequential per run:
//
//	Research → Draft → Review → {Finalize | Revise}
//	                     ↑__________ Revise
//
// The iteration counter increments exactly once per completed review
// step; Revise consumes work but never touches the counter. A run always
// terminates: the budget check takes precedence over the reviewer's
// decision, so an adversarial reviewer that forever requests revision
// still produces exactly iterationLimit review steps before the run
// finalizes with the best available deck.
//
// Capability failures never escape Run. A failed research call is
// forwarded as an error-marked artifact, a failed draft becomes a
// single-slide error deck, and a failed or malformed review is coerced to
// revise_draft. The only two completions are "approved deck" and "best
// available deck"; there is no failed outcome visible to the caller.
package workflow
