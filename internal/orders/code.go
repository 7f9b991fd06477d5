package orders

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var publicIDPattern = regexp.MustCompile(`^ORD-[0-9A-Z]+-[0-9A-Z]{4}$`)

// ValidPublicOrderID reports whether s has the ORD-<ts36>-<rand4> shape.
func ValidPublicOrderID(s string) bool { return publicIDPattern.MatchString(s) }

// CodeGenerator issues public order codes ORD-<base36 unix ms>-<4 base36 chars>.
// Within one generator a code is never repeated; across processes the unique
// index on orders.public_order_id catches the rare collision.
type CodeGenerator struct {
	Now func() time.Time

	mu   sync.Mutex
	ms   int64
	used map[string]struct{}
}

// suffixes per millisecond before Next waits for the clock to move on
const maxPerMilli = 36 * 36 * 36 * 36 / 2

func (g *CodeGenerator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *CodeGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	for ms == g.ms && len(g.used) >= maxPerMilli {
		time.Sleep(time.Millisecond)
		ms = g.now().UnixMilli()
	}
	if ms != g.ms {
		g.ms = ms
		g.used = make(map[string]struct{})
	}

	var b [4]byte
	for {
		for i := range b {
			b[i] = base36[rand.IntN(len(base36))]
		}
		if _, dup := g.used[string(b[:])]; !dup {
			break
		}
	}
	g.used[string(b[:])] = struct{}{}
	return "ORD-" + strings.ToUpper(strconv.FormatInt(ms, 36)) + "-" + string(b[:])
}

var defaultCodes = &CodeGenerator{}
