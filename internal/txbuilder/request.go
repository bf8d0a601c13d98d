// Package txbuilder translates typed action parameters into unsigned
// transaction requests. Building is deterministic and never touches the
// network; the connected wallet materializes, signs and submits the request.
package txbuilder

import "github.com/adboard/backend/internal/models"

// ArgKind classifies a call argument.
type ArgKind string

const (
	// ArgObject references an on-chain object by id.
	ArgObject ArgKind = "object"
	// ArgPure is a BCS-encodable primitive with an explicit type tag.
	ArgPure ArgKind = "pure"
	// ArgPayment is a coin split from the sender's gas balance for exactly
	// the stated amount.
	ArgPayment ArgKind = "payment"
)

// Arg is one positional argument of a contract call.
type Arg struct {
	Kind  ArgKind `json:"kind"`
	Type  string  `json:"type,omitempty"` // pure args only, e.g. "u64", "string"
	Value any     `json:"value"`
}

// MoveCall binds positional arguments to one contract entry point.
type MoveCall struct {
	Target string `json:"target"` // package::module::function
	Args   []Arg  `json:"args"`
}

// Request is an unsigned transaction ready for wallet signing. A no-op
// request (mock mode) carries no calls; callers must check Noop before
// treating the request as meaningful.
type Request struct {
	Noop   bool       `json:"noop,omitempty"`
	Sender string     `json:"sender,omitempty"`
	Calls  []MoveCall `json:"calls,omitempty"`
}

// PaymentAmount returns the total amount split from gas across all calls.
// Exactly one payment argument exists for priced actions, none otherwise.
func (r *Request) PaymentAmount() models.Amount {
	var total models.Amount
	for _, call := range r.Calls {
		for _, arg := range call.Args {
			if arg.Kind == ArgPayment {
				if amt, ok := arg.Value.(models.Amount); ok {
					total += amt
				}
			}
		}
	}
	return total
}

func objectArg(id string) Arg {
	return Arg{Kind: ArgObject, Value: id}
}

func pureArg(typ string, value any) Arg {
	return Arg{Kind: ArgPure, Type: typ, Value: value}
}

func paymentArg(amount models.Amount) Arg {
	return Arg{Kind: ArgPayment, Value: amount}
}
