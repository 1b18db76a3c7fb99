package paymentproof

import "context"

type Repository interface {
	Create(ctx context.Context, p *Proof) error
	GetByProofID(ctx context.Context, proofID string) (*Proof, error)
	Save(ctx context.Context, p *Proof) error
}
