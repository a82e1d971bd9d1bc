package xylem

import "github.com/lestrrat-go/xylem/loc"

// PI is a processing instruction: <?target instruction?>.
type PI struct {
	span        loc.Span
	Target      string
	Instruction string
}

func NewPI(target, instruction string, span loc.Span) *PI {
	return &PI{span: span, Target: target, Instruction: instruction}
}

func (p *PI) Span() loc.Span {
	return p.span
}

func (p *PI) content() {}

func (p *PI) misc() {}
