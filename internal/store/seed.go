package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/types"
)

var (
	seedFirstNames = []string{"Camille", "Louis", "Chloé", "Hugo", "Léa", "Jules", "Manon", "Arthur", "Inès", "Paul"}
	seedLastNames  = []string{"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit", "Durand", "Leroy", "Moreau"}
	seedTypes      = []state.UserType{state.TypeCustomer, state.TypeCustomer, state.TypeManager, state.TypeAdmin}
)

// Seed creates n deterministic demo users. Users that already exist are skipped.
func Seed(ctx context.Context, s UserStore, n int) (int, error) {
	created := 0
	for i := 0; i < n; i++ {
		first := seedFirstNames[i%len(seedFirstNames)]
		last := seedLastNames[(i/len(seedFirstNames))%len(seedLastNames)]
		username := fmt.Sprintf("user%03d", i+1)

		_, err := s.Create(ctx, types.CreateUser{
			Username:  username,
			Email:     username + "@example.com",
			FirstName: first,
			LastName:  last,
			Telephone: fmt.Sprintf("+33 6 %02d %02d %02d %02d", i%100, (i*7)%100, (i*13)%100, (i*17)%100),
			Active:    i%5 != 0,
			TypeUser:  string(seedTypes[i%len(seedTypes)]),
		})
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", username, err)
		}
		created++
	}
	return created, nil
}
