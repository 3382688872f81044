package sustainability

// The static knowledge table drives every sub-score. Signals are matched
// against a product's eco tags, categories and name/description keywords;
// each hit shifts the corresponding sub-score up from its neutral baseline.

// neutralSubScore is used when a product carries no matching signals, so
// missing attributes degrade score quality instead of failing the request.
const neutralSubScore = 50.0

// materialSignals reward renewable or reclaimed material composition.
var materialSignals = map[string]float64{
	"bamboo":        40,
	"organic":       30,
	"recycled":      30,
	"renewable":     25,
	"natural":       15,
	"biodegradable": 20,
	"sustainable":   20,
}

// productionSignals approximate a low-impact production process.
var productionSignals = map[string]float64{
	"handmade":   35,
	"artisan":    25,
	"fair-trade": 25,
	"organic":    15,
	"local":      10,
}

// transportSignals approximate locality and shipping footprint.
var transportSignals = map[string]float64{
	"local": 45,
}

// endOfLifeSignals approximate recyclability and disposal impact.
var endOfLifeSignals = map[string]float64{
	"recyclable":    40,
	"biodegradable": 35,
	"compostable":   35,
	"recycled":      20,
	"renewable":     15,
	"bamboo":        15,
}

// categoryBonuses nudge sub-scores for categories whose products tend to be
// durable, long-lived purchases.
var categoryBonuses = map[string]float64{
	"kitchen": 5,
	"home":    5,
	"garden":  8,
	"decor":   3,
	"books":   10,
}
