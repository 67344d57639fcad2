package runtime

import (
	"log"
	"time"
)

// Proactive is the background trigger path: a timer-driven goroutine
// that reads the affective state and occasionally voices a spontaneous
// thought. It only touches in-memory state, never store I/O, so it
// can never stall behind a slow embedding or database call.
type Proactive struct {
	stop chan struct{}
	done chan struct{}
}

// StartProactive launches the loop. Each interval it snapshots the
// affective state, asks the trigger engine for an action, and renders
// any proposed action through say. Stop it with Stop; the loop exits
// within one interval.
func (s *Session) StartProactive(interval time.Duration, say func(thought string)) *Proactive {
	if interval <= 0 {
		interval = 45 * time.Second
	}
	if say == nil {
		say = func(thought string) {
			log.Printf("[PROACTIVE] <%s> %s", s.character.Name(), thought)
		}
	}

	p := &Proactive{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("[PROACTIVE] Loop started (interval %s)", interval)
		for {
			select {
			case <-p.stop:
				log.Printf("[PROACTIVE] Loop stopped")
				return
			case <-ticker.C:
				snapshot := s.character.State().Snapshot()
				action, ok := s.trigger.Propose(snapshot)
				if !ok {
					continue
				}
				log.Printf("[PROACTIVE] Action proposed: %s (%s)", action, snapshot)
				say(s.actions.Render(action))
			}
		}
	}()
	return p
}

// Stop signals the loop and waits for it to exit.
func (p *Proactive) Stop() {
	close(p.stop)
	<-p.done
}
