package settlement

import "github.com/graywick/mapforge/pkg/rng"

// namePrefixes and nameSuffixes combine into settlement names. Pools are
// sized so collisions stay rare on even the densest maps.
var namePrefixes = [...]string{
	"Ash", "Birch", "Black", "Bright", "Clay", "Cold", "Crow", "Deep",
	"Elder", "Fair", "Fox", "Frost", "Gold", "Green", "Grey", "Harrow",
	"Hazel", "High", "Iron", "Lark", "Long", "Marsh", "Mill", "North",
	"Oak", "Raven", "Red", "Salt", "Stone", "Thorn", "West", "Wolf",
}

var nameSuffixes = [...]string{
	"bourne", "bridge", "brook", "burg", "bury", "dale", "fell", "field",
	"ford", "gate", "ham", "haven", "hill", "hollow", "mere", "moor",
	"stead", "ton", "vale", "wick", "wood", "worth",
}

var nameQualifiers = [...]string{
	"Upper ", "Lower ", "New ", "Old ", "Little ", "Great ",
}

// namer hands out unique settlement names for one generation run.
type namer struct {
	stream *rng.Stream
	used   map[string]bool
}

func newNamer(stream *rng.Stream) *namer {
	return &namer{stream: stream, used: make(map[string]bool)}
}

func (n *namer) roll() string {
	return namePrefixes[n.stream.IntN(len(namePrefixes))] +
		nameSuffixes[n.stream.IntN(len(nameSuffixes))]
}

// next returns a name not yet used on this map. After a few collisions
// it disambiguates with a qualifier instead of looping forever.
func (n *namer) next() string {
	for attempt := 0; attempt < 10; attempt++ {
		name := n.roll()
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
	name := nameQualifiers[n.stream.IntN(len(nameQualifiers))] + n.roll()
	n.used[name] = true
	return name
}
