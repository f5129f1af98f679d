package ai

import (
	"math/rand"
	"time"

	"github.com/lab1702/fighter-ai/game"
)

// maxJink is the largest raw jink component before scaling
const maxJink = 16384

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// randomJink returns a raw jink offset with each component uniform in
// [-maxJink, maxJink], multiplied by scale.
func randomJink(r *rand.Rand, scale float64) game.Vec3 {
	c := func() float64 { return float64(r.Intn(2*maxJink+1) - maxJink) }
	return game.Vec3{X: c(), Y: c(), Z: c()}.Scale(scale)
}
