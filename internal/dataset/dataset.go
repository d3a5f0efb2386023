// Package dataset embeds the built-in troubleshooting tree.
package dataset

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/aretw0/itnav/internal/codec"
	"github.com/aretw0/itnav/pkg/domain"
)

//go:embed default_state.json
var defaultState []byte

// Raw returns the embedded document as shipped.
func Raw() []byte {
	return append([]byte(nil), defaultState...)
}

// Default returns the built-in State. News items shipped without a date are
// dated today.
func Default(now time.Time) domain.State {
	s, err := codec.Decode(defaultState)
	if err != nil {
		panic(fmt.Sprintf("dataset: embedded state is invalid: %v", err))
	}
	today := now.Format(domain.DateLayout)
	for i := range s.News {
		if s.News[i].Date == "" {
			s.News[i].Date = today
		}
	}
	if s.Version == "" {
		s.Version = domain.DefaultVersion
	}
	return s
}
