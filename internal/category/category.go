// Package category maps free-text product titles onto a fixed tag set.
package category

import "strings"

// DefaultTag is returned when no keyword matches
const DefaultTag = "general"

type entry struct {
	tag      string
	keywords []string
}

// table order is the match priority, not alphabetical
var table = []entry{
	{"electronics", []string{
		"iphone", "samsung", "xiaomi", "huawei", "auriculares", "airpods",
		"tablet", "portátil", "laptop", "ratón", "teclado", "monitor",
		"tv", "televisor", "smartphone", "móvil", "cargador", "usb",
		"cable", "ssd", "disco", "altavoz", "echo", "fire tv",
	}},
	{"gaming", []string{
		"gaming", "ps5", "ps4", "xbox", "nintendo", "switch", "consola",
		"mando", "playstation", "rtx", "gpu", "gamer", "rgb",
	}},
	{"home", []string{
		"hogar", "aspirador", "robot", "freidora", "microondas", "nevera",
		"lavadora", "horno", "bombilla", "colchón",
	}},
	{"kitchen", []string{
		"cocina", "cafetera", "batidora", "sartén", "cuchillo", "cápsulas",
	}},
	{"sports", []string{
		"deporte", "fitness", "running", "bicicleta", "zapatillas",
		"decathlon", "garmin", "reloj", "gym", "pesas", "pulsera",
	}},
	{"fashion", []string{
		"moda", "ropa", "camiseta", "pantalón", "vestido", "zapatos",
		"nike", "adidas", "puma", "zara",
	}},
	{"beauty", []string{
		"cepillo", "afeitadora", "recortador", "plancha de pelo", "maquillaje",
	}},
	{"toys", []string{
		"lego", "juguete", "juego de mesa", "monopoly", "muñeca", "puzzle",
	}},
}

// Detect classifies a product title into one of the fixed category tags.
// The first category whose keyword list contains a case-insensitive
// substring of the title wins. Pure function.
func Detect(title string) string {
	lower := strings.ToLower(title)
	for _, e := range table {
		for _, kw := range e.keywords {
			if strings.Contains(lower, kw) {
				return e.tag
			}
		}
	}
	return DefaultTag
}

// Tags returns all known category tags in priority order, the default
// tag last.
func Tags() []string {
	tags := make([]string, 0, len(table)+1)
	for _, e := range table {
		tags = append(tags, e.tag)
	}
	return append(tags, DefaultTag)
}
