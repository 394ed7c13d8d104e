package pixelbelt

import (
	"math/rand"

	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/parameter"
)

// Stack is a queued blob: Count shots of Color
type Stack struct {
	Color core.Color
	Count int
}

// BuildStacks splits each color's pixel count into LargeStack chunks, then SmallStack chunks
// rounded up, and shuffles the result
// Colors are taken in order of first appearance so a seeded rng reproduces the layout
func BuildStacks(pixels []Pixel, rng *rand.Rand) []Stack {
	var order []core.Color
	counts := make(map[core.Color]int)
	for _, p := range pixels {
		if _, seen := counts[p.Color]; !seen {
			order = append(order, p.Color)
		}
		counts[p.Color]++
	}

	var stacks []Stack
	for _, c := range order {
		for remaining := counts[c]; remaining > 0; {
			size := parameter.SmallStack
			if remaining >= parameter.LargeStack {
				size = parameter.LargeStack
			}
			stacks = append(stacks, Stack{Color: c, Count: size})
			remaining -= size
		}
	}

	for i := len(stacks) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		stacks[i], stacks[j] = stacks[j], stacks[i]
	}
	return stacks
}

// Distribute deals stacks round-robin into n queues; the head of each queue is index 0
func Distribute(stacks []Stack, n int) [][]Stack {
	queues := make([][]Stack, n)
	for i, s := range stacks {
		queues[i%n] = append(queues[i%n], s)
	}
	return queues
}
