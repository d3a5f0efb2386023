// Package console implements the password-gated admin editing session.
//
// A Session holds a draft copy of the committed State. Mutations apply to
// the draft only; Save commits it through the Committer that owns the
// published State, Discard throws it away.
package console
