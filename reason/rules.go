package reason

import (
	"fmt"
	"strings"
)

// Rules accepts or rejects generated responses before they reach the
// user, and tracks recent replies to block repetition.
type Rules struct {
	recent     []string
	maxHistory int
}

// NewRules creates a rule checker remembering the last five replies.
func NewRules() *Rules {
	return &Rules{maxHistory: 5}
}

// Validate returns nil for an acceptable response, or the reason it
// was rejected. Rejections feed the caller's bounded retry loop.
func (r *Rules) Validate(response string) error {
	if len(strings.TrimSpace(response)) < 5 {
		return fmt.Errorf("response too short")
	}
	if len(response) > 1000 {
		return fmt.Errorf("response too long")
	}
	for _, prev := range r.recent {
		if response == prev {
			return fmt.Errorf("repetitive response")
		}
	}
	stripped := strings.NewReplacer(" ", "", ".", "", ",", "").Replace(response)
	if len(stripped) < 3 {
		return fmt.Errorf("no meaningful content")
	}
	return nil
}

// Track records an accepted response.
func (r *Rules) Track(response string) {
	r.recent = append(r.recent, response)
	if len(r.recent) > r.maxHistory {
		r.recent = r.recent[1:]
	}
}
