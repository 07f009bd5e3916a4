package meter

import (
	"fmt"
	"io"
	"math/big"
	"slices"
	"sync"
	"text/tabwriter"
	"time"

	"fortio.org/safecast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stat aggregates the calls to one routine.
type Stat struct {
	Name    string        `json:"name"`
	Calls   uint64        `json:"calls"`
	Bits    uint64        `json:"operand_bits"` // sum of operand bit lengths
	MaxBits int           `json:"max_bits"`     // largest single operand
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Counter is a Hook that aggregates per-routine statistics. It is safe for
// concurrent use; create one per measurement and drop it afterwards.
type Counter struct {
	mu    sync.Mutex
	stats map[string]*Stat
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{stats: make(map[string]*Stat)}
}

func (c *Counter) Start(name string, operands ...*big.Int) Token {
	return NewToken(name, operands...)
}

func (c *Counter) Stop(tok Token) {
	dur := time.Since(tok.Begun)
	var bits uint64
	for _, b := range tok.Bits {
		if n, err := safecast.Conv[uint64](b); err == nil {
			bits += n
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats[tok.Name]
	if s == nil {
		s = &Stat{Name: tok.Name}
		c.stats[tok.Name] = s
	}
	s.Calls++
	s.Bits += bits
	s.MaxBits = max(s.MaxBits, tok.MaxBits())
	s.Elapsed += dur
}

// Snapshot returns the statistics gathered so far, sorted by routine name.
func (c *Counter) Snapshot() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := Report{Routines: make([]Stat, 0, len(c.stats))}
	for _, s := range c.stats {
		r.Routines = append(r.Routines, *s)
	}
	slices.SortFunc(r.Routines, func(a, b Stat) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return r
}

// Reset discards all statistics.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.stats)
}

// Report is a point-in-time copy of a Counter.
type Report struct {
	Routines []Stat `json:"routines"`
}

// Lookup returns the statistics for one routine.
func (r Report) Lookup(name string) (Stat, bool) {
	for _, s := range r.Routines {
		if s.Name == name {
			return s, true
		}
	}
	return Stat{}, false
}

// Total sums all routines.
func (r Report) Total() Stat {
	t := Stat{Name: "total"}
	for _, s := range r.Routines {
		t.Calls += s.Calls
		t.Bits += s.Bits
		t.MaxBits = max(t.MaxBits, s.MaxBits)
		t.Elapsed += s.Elapsed
	}
	return t
}

// Format writes an aligned table with grouped thousands.
func (r Report) Format(w io.Writer) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	row := func(s Stat) {
		avg := 0.0
		if s.Calls > 0 {
			avg = float64(s.Bits) / float64(s.Calls)
		}
		p.Fprintf(tw, "%s\t%d\t%.1f\t%d\t%.3f\t\n",
			s.Name, s.Calls, avg, s.MaxBits, float64(s.Elapsed)/float64(time.Millisecond))
	}

	fmt.Fprintf(tw, "routine\tcalls\tavg bits\tmax bits\tms\t\n")
	for _, s := range r.Routines {
		row(s)
	}
	row(r.Total())
	return tw.Flush()
}
