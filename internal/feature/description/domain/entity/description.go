// Package entity defines the domain entities for the description feature.
package entity

import "time"

// Tone is the writing style requested for a product description.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFun          Tone = "fun"
	ToneFriendly     Tone = "friendly"
)

// Tones lists every accepted tone in display order.
var Tones = []Tone{ToneProfessional, ToneFun, ToneFriendly}

// Valid reports whether t is one of Tones.
func (t Tone) Valid() bool {
	for _, v := range Tones {
		if t == v {
			return true
		}
	}
	return false
}

// Product is the input to description generation.
type Product struct {
	Title    string
	Features string
	// Tone is ToneProfessional when empty.
	Tone Tone
}

// Descriptions is the outcome of one generation request.
type Descriptions struct {
	Items []string
	// Elapsed is the time spent waiting on the text generator.
	Elapsed time.Duration
}
