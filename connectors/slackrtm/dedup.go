package slackrtm

import "container/ring"

// dedup remembers the last few message timestamps so a redelivered event is
// dropped instead of dispatched twice. Slack redelivers on flaky sockets.
type dedup struct {
	r *ring.Ring
}

func newDedup(size int) *dedup {
	return &dedup{r: ring.New(size)}
}

// seen reports whether id was recently delivered, recording it if not.
func (d *dedup) seen(id string) bool {
	if id == "" {
		return false
	}
	found := false
	d.r.Do(func(v interface{}) {
		if v == id {
			found = true
		}
	})
	if found {
		return true
	}
	d.r.Value = id
	d.r = d.r.Next()
	return false
}
