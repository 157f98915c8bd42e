package action

import (
	"context"
	"errors"
	"strings"

	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/repository"
)

// Resolver maps a free-form patient name coming out of the language model to
// one patient record. Strategies run strictly in order from most to least
// precise and the first hit wins.
type Resolver struct {
	patients repository.PatientRepository
}

func NewResolver(patients repository.PatientRepository) *Resolver {
	return &Resolver{patients: patients}
}

// tokenizeName lowercases, splits on whitespace and drops single-character
// fragments such as stray initials or punctuation.
func tokenizeName(name string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Resolve returns the best match for name within one clinic site, or
// repository.ErrNotFound when no strategy produces a candidate.
func (r *Resolver) Resolve(ctx context.Context, site model.Ambulatorio, name string) (*model.Patient, error) {
	tokens := tokenizeName(name)
	if len(tokens) == 0 {
		return nil, repository.ErrNotFound
	}

	// Exact surname. With a second token the given name has to agree too,
	// otherwise the candidate is discarded and the looser strategies run.
	p, err := r.patients.FindOneBySurname(ctx, site, tokens[0])
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if p != nil {
		if len(tokens) == 1 {
			return p, nil
		}
		nome := strings.ToLower(p.Nome)
		if strings.Contains(nome, tokens[1]) || strings.HasPrefix(nome, tokens[1]) {
			return p, nil
		}
	}

	if len(tokens) >= 2 {
		// Surname plus given-name prefix, then the same with the tokens
		// swapped for "Nome Cognome" input order.
		p, err = r.patients.FindOneBySurnameAndNamePrefix(ctx, site, tokens[0], tokens[1])
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if p != nil {
			return p, nil
		}

		p, err = r.patients.FindOneBySurnameAndNamePrefix(ctx, site, tokens[1], tokens[0])
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}

	p, err = r.patients.FindOneBySurnamePrefix(ctx, site, tokens[0])
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	// Last resort: every token as a substring of "cognome nome".
	p, err = r.patients.FindOneByFullNameTokens(ctx, site, tokens)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	return nil, repository.ErrNotFound
}
