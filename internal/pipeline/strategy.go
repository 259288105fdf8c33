package pipeline

import (
	"docpipe/constants"
	"docpipe/internal/llm"
)

// Strategy selects how structured fields are produced from normalized text.
// It is a tagged value: either the deterministic rules engine, or a delegated
// model extractor. There is no silent fallback between the two.
type Strategy struct {
	mode     constants.ExtractionMode
	delegate llm.RecordExtractor
}

// RulesStrategy runs the deterministic rule tables.
func RulesStrategy() Strategy {
	return Strategy{mode: constants.ModeRules}
}

// DelegatedStrategy hands extraction to the given model client.
func DelegatedStrategy(client llm.RecordExtractor) Strategy {
	return Strategy{mode: constants.ModeLLM, delegate: client}
}

// StrategyFor maps a validated mode string to a strategy, using client for
// the delegated branch.
func StrategyFor(mode constants.ExtractionMode, client llm.RecordExtractor) Strategy {
	if mode == constants.ModeLLM {
		return DelegatedStrategy(client)
	}
	return RulesStrategy()
}

func (s Strategy) Mode() constants.ExtractionMode { return s.mode }
