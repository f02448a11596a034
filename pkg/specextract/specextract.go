// Package specextract turns free-text marketplace titles into typed component
// attributes. Each extractor is an independent keyword or regex pass that
// either finds its attribute or reports nothing; failed extraction never
// fails the item.
package specextract

import (
	"strings"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
	"github.com/Aquilabot/KreaPC-Engine/internal/utils"
	"github.com/dlclark/regexp2"
)

var (
	socketMatcher     = regexp2.MustCompile(`(?i)\b(LGA\s?-?\d{3,4}|AM[45]\+?|sTRX4|sTR5|TR4)\b`, 0)
	memoryTypeMatcher = regexp2.MustCompile(`(?i)(?<![a-z])(?<!G)DDR[2345]X?\b`, 0)
	tdpMatcher        = regexp2.MustCompile(`(?i)(?<=\bTDP\D{0,5})\d{2,4}|\d{2,4}(?=\s?W\s+TDP\b)`, 0)
	psuRecMatcher     = regexp2.MustCompile(`(?i)(?<=recommended\s(PSU|power\ssupply)\D{0,6})\d{3,4}|\d{3,4}(?=\s?W(att)?\s(PSU\s)?recommended)`, 0)
	wattageMatcher    = regexp2.MustCompile(`(?i)\d{3,4}(?=\s?W(att)?s?\b)`, 0)
	millimeterMatcher = regexp2.MustCompile(`(?i)\d{2,3}(?=\s?mm\b)`, 0)
	clockMatcher      = regexp2.MustCompile(`(?i)\d\.\d{1,2}(?=\s?GHz\b)`, 0)
	coreCountMatcher  = regexp2.MustCompile(`(?i)\d{1,2}(?=[\s-]?cores?\b)`, 0)
	memSizeMatcher    = regexp2.MustCompile(`(?i)\d{1,3}\s?[GT]B\b`, 0)
	modelMatcher      = regexp2.MustCompile(`(?i)\b(i[3579][- ]?\d{4,5}[A-Z]{0,2}|Ryzen\s[3579]\s\d{4}[A-Z0-9]{0,3}|Threadripper\s\d{4}[A-Z]{0,3}|RTX\s?\d{4}\s?(Ti|SUPER)?|GTX\s?\d{3,4}\s?(Ti)?|RX\s?\d{4}\s?(XTX?|GRE)?|Arc\sA\d{3})\b`, 0)
)

// categoryKeywords doubles as the PC-relevancy filter for ingestion: a title
// matching no category's keywords is not a PC part.
var categoryKeywords = map[models.Category][]string{
	models.CategoryGPU:         {"graphics card", "geforce", "rtx", "gtx", "radeon rx", "arc a"},
	models.CategoryCPU:         {"cpu", "processor", "ryzen", "core i3", "core i5", "core i7", "core i9", "threadripper", "xeon"},
	models.CategoryMotherboard: {"motherboard", "mainboard", "mobo"},
	models.CategoryPSU:         {"power supply", "psu", "80 plus", "80+"},
	models.CategoryCooling:     {"cooler", "cooling", "aio", "heatsink", "liquid cool", "case fan"},
	models.CategoryCase:        {"pc case", "computer case", "mid tower", "full tower", "chassis"},
	models.CategoryStorage:     {"ssd", "nvme", "hdd", "hard drive", "m.2", "sata"},
	models.CategoryRAM:         {"ram", "dimm", "ddr", "memory kit"},
}

// categoryOrder fixes keyword precedence; specific categories come before the
// ones with ambiguous keywords ("memory", "case").
var categoryOrder = []models.Category{
	models.CategoryGPU,
	models.CategoryCPU,
	models.CategoryMotherboard,
	models.CategoryPSU,
	models.CategoryCooling,
	models.CategoryCase,
	models.CategoryStorage,
	models.CategoryRAM,
}

var brandNames = map[string]string{
	"intel":           "Intel",
	"amd":             "AMD",
	"nvidia":          "NVIDIA",
	"asus":            "ASUS",
	"msi":             "MSI",
	"gigabyte":        "Gigabyte",
	"asrock":          "ASRock",
	"corsair":         "Corsair",
	"evga":            "EVGA",
	"seasonic":        "Seasonic",
	"nzxt":            "NZXT",
	"kingston":        "Kingston",
	"crucial":         "Crucial",
	"samsung":         "Samsung",
	"western digital": "Western Digital",
	"seagate":         "Seagate",
	"g.skill":         "G.Skill",
	"thermaltake":     "Thermaltake",
	"cooler master":   "Cooler Master",
	"be quiet":        "be quiet!",
	"lian li":         "Lian Li",
	"noctua":          "Noctua",
	"fractal design":  "Fractal Design",
	"deepcool":        "DeepCool",
	"silverstone":     "SilverStone",
	"zotac":           "ZOTAC",
	"sapphire":        "Sapphire",
	"adata":           "ADATA",
	"patriot":         "Patriot",
	"teamgroup":       "TeamGroup",
}

type Extracted struct {
	Category models.Category
	Brand    string
	Model    string
	Specs    models.SpecBag
}

// Extract runs every extractor over the title and composes the results.
func Extract(title string) Extracted {
	title = utils.CollapseWhitespace(title)

	out := Extracted{
		Category: DetectCategory(title),
		Brand:    detectBrand(title),
		Model:    extractModel(title),
		Specs:    models.SpecBag{},
	}

	extractSocket(title, out.Specs)
	extractMemoryType(title, out.Category, out.Specs)
	extractPower(title, out.Category, out.Specs)
	extractLength(title, out.Category, out.Specs)
	extractDisplayOnly(title, out.Specs)

	return out
}

// DetectCategory returns the first category whose keyword set matches the
// title, or CategoryOther when nothing does.
func DetectCategory(title string) models.Category {
	lower := strings.ToLower(title)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return models.CategoryOther
}

// Relevant is the ingestion keyword gate. With a category hint only that
// category's keyword subset applies; otherwise any category's keywords do.
func Relevant(title string, hint models.Category) bool {
	lower := strings.ToLower(title)
	if kws, ok := categoryKeywords[hint]; ok {
		for _, kw := range kws {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
	return DetectCategory(title) != models.CategoryOther
}

func detectBrand(title string) string {
	lower := strings.ToLower(title)
	for needle, display := range brandNames {
		if strings.Contains(lower, needle) {
			return display
		}
	}
	return ""
}

func extractModel(title string) string {
	return utils.CollapseWhitespace(utils.FirstMatch(modelMatcher, title))
}

func extractSocket(title string, specs models.SpecBag) {
	m := utils.FirstMatch(socketMatcher, title)
	if m == "" {
		return
	}
	specs.Set(models.SpecSocket, strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(m, " ", ""), "-", "")))
}

func extractMemoryType(title string, cat models.Category, specs models.SpecBag) {
	if cat != models.CategoryRAM && cat != models.CategoryMotherboard {
		return
	}
	m := utils.FirstMatch(memoryTypeMatcher, title)
	if m == "" {
		return
	}
	specs.Set(models.SpecMemoryType, strings.ToUpper(m))
}

// extractPower fills the wattage-family keys. The meaning of a bare "650W"
// depends on the category: capacity on a PSU, draw elsewhere.
func extractPower(title string, cat models.Category, specs models.SpecBag) {
	if m := utils.FirstMatch(tdpMatcher, title); m != "" {
		specs.Set(models.SpecTDP, m)
	}
	if m := utils.FirstMatch(psuRecMatcher, title); m != "" {
		specs.Set(models.SpecRecommendedPSU, m)
	}
	if cat == models.CategoryPSU {
		if m := utils.FirstMatch(wattageMatcher, title); m != "" {
			specs.Set(models.SpecWattage, m)
		}
	}
}

func extractLength(title string, cat models.Category, specs models.SpecBag) {
	m := utils.FirstMatch(millimeterMatcher, title)
	if m == "" {
		return
	}
	switch cat {
	case models.CategoryGPU:
		specs.Set(models.SpecLength, m)
	case models.CategoryCase:
		specs.Set(models.SpecMaxGpuLength, m)
	}
}

func extractDisplayOnly(title string, specs models.SpecBag) {
	if m := utils.FirstMatch(clockMatcher, title); m != "" {
		specs.Set(models.SpecClockSpeed, m)
	}
	if m := utils.FirstMatch(coreCountMatcher, title); m != "" {
		specs.Set(models.SpecCores, m)
	}
	if m := utils.FirstMatch(memSizeMatcher, title); m != "" {
		specs.Set(models.SpecMemorySize, strings.ToUpper(strings.ReplaceAll(m, " ", "")))
	}
}
