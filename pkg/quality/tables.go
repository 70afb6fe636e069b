package quality

import "github.com/jwebster45206/crawl-engine/pkg/crawl"

// expectedDifficulty is the heuristic baseline difficulty per puzzle type.
// A puzzle deviating by more than 2 from its baseline is penalized on
// difficulty fit. Tune here, not in the scoring logic.
var expectedDifficulty = map[crawl.PuzzleType]int{
	crawl.TypeLogic:       3,
	crawl.TypeObservation: 2,
	crawl.TypeCipher:      4,
	crawl.TypeDeduction:   3,
	crawl.TypeLocal:       2,
	crawl.TypeWordplay:    2,
	crawl.TypeMath:        3,
	crawl.TypePattern:     3,
	crawl.TypePhysical:    2,
	crawl.TypeSocial:      2,
	crawl.TypeMemory:      2,
	crawl.TypeCreative:    3,
	crawl.TypeTechnology:  3,
	crawl.TypeMeta:        4,
}

// validMechanics lists which mechanics make sense for each puzzle type.
// A declared mechanic outside this set is penalized on mechanics
// integration.
var validMechanics = map[crawl.PuzzleType][]crawl.PuzzleMechanic{
	crawl.TypeLogic: {
		crawl.MechanicMultiStep, crawl.MechanicProgressive,
		crawl.MechanicCrossReference, crawl.MechanicHybrid,
		crawl.MechanicRedHerring, crawl.MechanicProgressiveDifficulty,
	},
	crawl.TypeObservation: {
		crawl.MechanicEnvironmental, crawl.MechanicTimeSensitive,
		crawl.MechanicMultiStep, crawl.MechanicHybrid,
		crawl.MechanicRedHerring,
	},
	crawl.TypeCipher: {
		crawl.MechanicMultiStep, crawl.MechanicProgressive,
		crawl.MechanicCrossReference, crawl.MechanicHybrid,
		crawl.MechanicProgressiveDifficulty,
	},
	crawl.TypeDeduction: {
		crawl.MechanicMultiStep, crawl.MechanicCrossReference,
		crawl.MechanicRedHerring, crawl.MechanicHybrid,
		crawl.MechanicProgressive,
	},
	crawl.TypeLocal: {
		crawl.MechanicEnvironmental, crawl.MechanicCrossReference,
		crawl.MechanicHybrid, crawl.MechanicCollaborative,
	},
	crawl.TypeWordplay: {
		crawl.MechanicMultiStep, crawl.MechanicProgressive,
		crawl.MechanicHybrid, crawl.MechanicRedHerring,
	},
	crawl.TypeMath: {
		crawl.MechanicMultiStep, crawl.MechanicProgressive,
		crawl.MechanicCrossReference, crawl.MechanicHybrid,
		crawl.MechanicProgressiveDifficulty,
	},
	crawl.TypePattern: {
		crawl.MechanicMultiStep, crawl.MechanicProgressive,
		crawl.MechanicEnvironmental, crawl.MechanicHybrid,
	},
	crawl.TypePhysical: {
		crawl.MechanicCollaborative, crawl.MechanicTimeSensitive,
		crawl.MechanicEnvironmental, crawl.MechanicMultiStep,
		crawl.MechanicHybrid,
	},
	crawl.TypeSocial: {
		crawl.MechanicCollaborative, crawl.MechanicTimeSensitive,
		crawl.MechanicEnvironmental, crawl.MechanicHybrid,
	},
	crawl.TypeMemory: {
		crawl.MechanicCrossReference, crawl.MechanicProgressive,
		crawl.MechanicMultiStep, crawl.MechanicHybrid,
	},
	crawl.TypeCreative: {
		crawl.MechanicCollaborative, crawl.MechanicEnvironmental,
		crawl.MechanicMultiStep, crawl.MechanicHybrid,
	},
	crawl.TypeTechnology: {
		crawl.MechanicMultiStep, crawl.MechanicCrossReference,
		crawl.MechanicTimeSensitive, crawl.MechanicHybrid,
	},
	crawl.TypeMeta: {
		crawl.MechanicCrossReference, crawl.MechanicMultiStep,
		crawl.MechanicProgressive, crawl.MechanicHybrid,
		crawl.MechanicCollaborative,
	},
}

// dataTypes are puzzle types that inherently need concrete data in their
// content: a math puzzle without a single digit is not solvable.
var dataTypes = map[crawl.PuzzleType]bool{
	crawl.TypeMath:        true,
	crawl.TypeCipher:      true,
	crawl.TypePattern:     true,
	crawl.TypeObservation: true,
	crawl.TypePhysical:    true,
}

// mechanicSignatures maps a mechanic to words its content should contain
// when the mechanic is genuinely integrated rather than just declared.
var mechanicSignatures = map[crawl.PuzzleMechanic][]string{
	crawl.MechanicMultiStep:      {"step", "stage", "first", "then", "next", "finally"},
	crawl.MechanicTimeSensitive:  {"time", "minute", "second", "quick", "before", "hurry", "countdown"},
	crawl.MechanicCollaborative:  {"team", "together", "partner", "each player", "everyone", "split"},
	crawl.MechanicEnvironmental:  {"look", "find", "around", "observe", "spot", "search", "notice"},
	crawl.MechanicCrossReference: {"earlier", "previous", "recall", "combine", "remember", "back at"},
}
