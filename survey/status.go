package survey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type StateKind int

const (
	AwaitingMenu StateKind = iota
	ShowingSettings
	ShowingCompanies
	Polling
)

var ErrMalformedStatus = errors.New("malformed session status")

// Status is the typed session position. For Polling it carries the
// question-set name and the 1-based index of the question being asked;
// index len+1 is the sentinel position waiting for the final photo.
type Status struct {
	Kind  StateKind
	Set   string
	Index int
}

const (
	statusAwaitingMenu     = "awaiting_menu"
	statusShowingSettings  = "showing_settings"
	statusShowingCompanies = "showing_companies"
	pollingPrefix          = "polling_"
)

func PollingAt(set string, index int) Status {
	return Status{Kind: Polling, Set: set, Index: index}
}

// Encode renders the status for storage. ParseStatus(s.Encode()) == s
// for every valid status.
func (s Status) Encode() string {
	switch s.Kind {
	case ShowingSettings:
		return statusShowingSettings
	case ShowingCompanies:
		return statusShowingCompanies
	case Polling:
		return fmt.Sprintf("%s%s_%d", pollingPrefix, s.Set, s.Index)
	default:
		return statusAwaitingMenu
	}
}

func ParseStatus(raw string) (Status, error) {
	switch raw {
	case statusAwaitingMenu:
		return Status{Kind: AwaitingMenu}, nil
	case statusShowingSettings:
		return Status{Kind: ShowingSettings}, nil
	case statusShowingCompanies:
		return Status{Kind: ShowingCompanies}, nil
	}
	if strings.HasPrefix(raw, pollingPrefix) {
		rest := raw[len(pollingPrefix):]
		// the index follows the last underscore, so set names may
		// contain underscores themselves
		cut := strings.LastIndex(rest, "_")
		if cut < 1 {
			return Status{}, fmt.Errorf("%w: %q", ErrMalformedStatus, raw)
		}
		index, err := strconv.Atoi(rest[cut+1:])
		if err != nil || index < 1 {
			return Status{}, fmt.Errorf("%w: %q", ErrMalformedStatus, raw)
		}
		return PollingAt(rest[:cut], index), nil
	}
	return Status{}, fmt.Errorf("%w: %q", ErrMalformedStatus, raw)
}
