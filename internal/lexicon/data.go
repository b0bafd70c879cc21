package lexicon

// unitEntry pairs a canonical unit with every spoken surface form that should
// collapse to it.
type unitEntry struct {
	name    string
	aliases []string
}

// canonicalUnits is the fixed set of six billing units. The alias lists cover
// singular/plural and common abbreviations heard from the speech engine.
var canonicalUnits = []unitEntry{
	{name: "kg", aliases: []string{"kg", "kgs", "kilogram", "kilograms"}},
	{name: "g", aliases: []string{"g", "gram", "grams"}},
	{name: "piece", aliases: []string{"piece", "pieces", "pc", "pcs", "item", "items", "unit", "units"}},
	{name: "packet", aliases: []string{"packet", "packets", "pkt"}},
	{name: "box", aliases: []string{"box", "boxes"}},
	{name: "liter", aliases: []string{"l", "liter", "liters", "litre", "litres"}},
}

// productEntry maps a canonical English product name to its Tamil-script and
// transliteration forms. Either form may be empty for English-only products.
type productEntry struct {
	name     string
	tamil    string
	translit string
}

// defaultProducts is the built-in grocery catalogue. Canonical names are
// lower-cased; the recognizer capitalizes for display.
var defaultProducts = []productEntry{
	{name: "potato", tamil: "உருளைக்கிழங்கு", translit: "urulaikizhangu"},
	{name: "tomato", tamil: "தக்காளி", translit: "thakkali"},
	{name: "onion", tamil: "வெங்காயம்", translit: "vengayam"},
	{name: "carrot", tamil: "கேரட்", translit: "keerat"},
	{name: "rice", tamil: "அரிசி", translit: "arisi"},
	{name: "sugar", tamil: "சர்க்கரை", translit: "sakkarai"},
	{name: "salt", tamil: "உப்பு", translit: "uppu"},
	{name: "milk", tamil: "பால்", translit: "paal"},
	{name: "egg", tamil: "முட்டை", translit: "muttai"},
	{name: "banana", tamil: "வாழைப்பழம்", translit: "vazhaipazham"},
	{name: "apple", tamil: "ஆப்பிள்", translit: "appil"},
	{name: "garlic", tamil: "பூண்டு", translit: "poondu"},
	{name: "ginger", tamil: "இஞ்சி", translit: "inji"},
	{name: "chilli", tamil: "மிளகாய்", translit: "milagai"},
	{name: "coconut", tamil: "தேங்காய்", translit: "thengai"},
	{name: "oil", tamil: "எண்ணெய்", translit: "ennai"},
	{name: "dal", tamil: "பருப்பு", translit: "paruppu"},
	{name: "flour", tamil: "மாவு", translit: "maavu"},
	{name: "beans", tamil: "பீன்ஸ்", translit: "beens"},
	{name: "brinjal", tamil: "கத்தரிக்காய்", translit: "kathirikai"},
	{name: "soap"},
	{name: "bread"},
	{name: "butter"},
	{name: "tea"},
	{name: "coffee"},
}

// defaultCorrections maps mishearings observed in real transcripts to the
// product the speaker meant. Kept deliberately small — anything systematic
// belongs in the fuzzy matcher, not here.
var defaultCorrections = map[string]string{
	"patato":  "potato",
	"potatoe": "potato",
	"tomoto":  "tomato",
	"tamato":  "tomato",
	"onian":   "onion",
	"unian":   "onion",
	"bannana": "banana",
	"sugur":   "sugar",
	"chili":   "chilli",
	"garlick": "garlic",
}
