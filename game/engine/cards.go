package engine

import (
	"fmt"
	"sort"
)

// Pile is one card system: a draw deck, a discard bag and the player's hand.
// Cards only ever move between the three, so Total never changes.
type Pile[T any] struct {
	deck    []T
	discard []T
	hand    []T
}

// NewDeck builds a pile holding copies of every template, shuffled with rng.
func NewDeck[T any](templates []T, copies int, rng Rand) *Pile[T] {
	p := &Pile[T]{}
	for _, t := range templates {
		for i := 0; i < copies; i++ {
			p.deck = append(p.deck, t)
		}
	}
	shuffle(rng, p.deck)
	return p
}

// Draw moves up to n cards from the top of the deck into the hand. An empty
// deck is refilled by shuffling the discard into it. Fewer than n cards are
// drawn only when both are empty. It returns the number drawn.
func (p *Pile[T]) Draw(n int, rng Rand) int {
	drawn := 0
	for drawn < n {
		if len(p.deck) == 0 {
			if len(p.discard) == 0 {
				break
			}
			p.deck, p.discard = p.discard, nil
			shuffle(rng, p.deck)
		}
		top := len(p.deck) - 1
		p.hand = append(p.hand, p.deck[top])
		p.deck = p.deck[:top]
		drawn++
	}
	return drawn
}

// Discard puts a card into the discard bag.
func (p *Pile[T]) Discard(card T) {
	p.discard = append(p.discard, card)
}

// RetireFromHand moves the cards at indices from the hand to the discard bag.
// Removal runs in descending index order so earlier removals never shift later
// ones. Invalid or repeated indices fail without touching the pile.
func (p *Pile[T]) RetireFromHand(indices []int) ([]T, error) {
	order := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(order)))
	for i, idx := range order {
		if idx < 0 || idx >= len(p.hand) {
			return nil, fmt.Errorf("%w: hand index %d out of range", ErrInvalidSelection, idx)
		}
		if i > 0 && order[i-1] == idx {
			return nil, fmt.Errorf("%w: hand index %d repeated", ErrInvalidSelection, idx)
		}
	}

	retired := make([]T, 0, len(order))
	for _, idx := range order {
		card := p.hand[idx]
		p.hand = append(p.hand[:idx], p.hand[idx+1:]...)
		p.Discard(card)
		retired = append(retired, card)
	}
	return retired, nil
}

// Hand returns a copy of the hand in order.
func (p *Pile[T]) Hand() []T {
	out := make([]T, len(p.hand))
	copy(out, p.hand)
	return out
}

// At returns the hand card at index i.
func (p *Pile[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(p.hand) {
		var zero T
		return zero, false
	}
	return p.hand[i], true
}

func (p *Pile[T]) HandLen() int    { return len(p.hand) }
func (p *Pile[T]) DeckLen() int    { return len(p.deck) }
func (p *Pile[T]) DiscardLen() int { return len(p.discard) }

// Total is the number of cards across deck, discard and hand.
func (p *Pile[T]) Total() int {
	return len(p.deck) + len(p.discard) + len(p.hand)
}
