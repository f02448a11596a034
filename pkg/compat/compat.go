// Package compat evaluates a build's selected components against a fixed,
// declarative rule table. Rule outcomes are report data: an incompatible
// build is a valid result, never a Go error.
package compat

import (
	"fmt"
	"math"
	"strings"

	"github.com/Aquilabot/KreaPC-Engine/internal/models"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule types carried on report issues.
const (
	RuleSocketMismatch     = "socket_mismatch"
	RuleMemoryTypeMismatch = "memory_type_mismatch"
	RulePSUInsufficient    = "psu_insufficient"
	RuleGPUClearance       = "gpu_clearance"
	RuleCoolingAdequacy    = "cooling_insufficient"
	RuleChipsetHeuristic   = "chipset_heuristic"
	RuleIncompleteBuild    = "incomplete_build"
)

// psuHeadroom is the fixed safety margin applied to the summed power draw.
const psuHeadroom = 1.5

type parts = map[models.Category]*models.Component

type rule struct {
	ruleType string
	severity Severity
	requires []models.Category
	check    func(p parts) (message string, affected []string, fired bool)
}

// rules run in declaration order on every call; no rule short-circuits, so a
// single Evaluate yields the complete report.
var rules = []rule{
	{
		ruleType: RuleSocketMismatch,
		severity: SeverityError,
		requires: []models.Category{models.CategoryCPU, models.CategoryMotherboard},
		check:    checkSocket,
	},
	{
		ruleType: RuleMemoryTypeMismatch,
		severity: SeverityError,
		requires: []models.Category{models.CategoryRAM, models.CategoryMotherboard},
		check:    checkMemoryType,
	},
	{
		ruleType: RulePSUInsufficient,
		severity: SeverityWarning,
		requires: []models.Category{models.CategoryPSU},
		check:    checkPSUWattage,
	},
	{
		ruleType: RuleGPUClearance,
		severity: SeverityWarning,
		requires: []models.Category{models.CategoryGPU, models.CategoryCase},
		check:    checkGPUClearance,
	},
	{
		ruleType: RuleCoolingAdequacy,
		severity: SeverityWarning,
		requires: []models.Category{models.CategoryCPU},
		check:    checkCooling,
	},
	{
		ruleType: RuleChipsetHeuristic,
		severity: SeverityWarning,
		requires: []models.Category{models.CategoryCPU, models.CategoryMotherboard},
		check:    checkChipsetHeuristic,
	},
	{
		ruleType: RuleIncompleteBuild,
		severity: SeverityWarning,
		check:    checkCompleteness,
	},
}

// Evaluate runs the full rule table over the selected components. Pure and
// reentrant. A rule whose required categories or attributes are missing is
// skipped silently: unknown is not incompatible.
func Evaluate(p parts) *models.CompatibilityReport {
	report := &models.CompatibilityReport{
		Warnings: []models.Issue{},
		Errors:   []models.Issue{},
	}

	for _, r := range rules {
		if !hasAll(p, r.requires) {
			continue
		}
		message, affected, fired := r.check(p)
		if !fired {
			continue
		}
		issue := models.Issue{RuleType: r.ruleType, Message: message, AffectedIDs: affected}
		if r.severity == SeverityError {
			report.Errors = append(report.Errors, issue)
		} else {
			report.Warnings = append(report.Warnings, issue)
		}
	}

	report.IsCompatible = len(report.Errors) == 0
	return report
}

func hasAll(p parts, categories []models.Category) bool {
	for _, cat := range categories {
		if p[cat] == nil {
			return false
		}
	}
	return true
}

func checkSocket(p parts) (string, []string, bool) {
	cpu, board := p[models.CategoryCPU], p[models.CategoryMotherboard]
	cpuSocket, ok := cpu.Specs.String(models.SpecSocket)
	if !ok {
		return "", nil, false
	}
	boardSocket, ok := board.Specs.String(models.SpecSocket)
	if !ok {
		return "", nil, false
	}
	if strings.EqualFold(cpuSocket, boardSocket) {
		return "", nil, false
	}
	msg := fmt.Sprintf("CPU socket %s does not fit motherboard socket %s", cpuSocket, boardSocket)
	return msg, []string{cpu.ID, board.ID}, true
}

func checkMemoryType(p parts) (string, []string, bool) {
	ram, board := p[models.CategoryRAM], p[models.CategoryMotherboard]
	ramType, ok := ram.Specs.String(models.SpecMemoryType)
	if !ok {
		return "", nil, false
	}
	boardType, ok := board.Specs.String(models.SpecMemoryType)
	if !ok {
		return "", nil, false
	}
	if strings.EqualFold(ramType, boardType) {
		return "", nil, false
	}
	msg := fmt.Sprintf("%s memory is not supported by a %s motherboard", ramType, boardType)
	return msg, []string{ram.ID, board.ID}, true
}

// checkPSUWattage sums the declared power draw of every component (tdp, or
// recommendedPSU when a part states one instead) and applies the fixed
// headroom multiplier.
func checkPSUWattage(p parts) (string, []string, bool) {
	psu := p[models.CategoryPSU]
	capacity, ok := psu.Specs.Number(models.SpecWattage)
	if !ok {
		return "", nil, false
	}

	var draw float64
	affected := []string{psu.ID}
	for _, c := range p {
		if c == nil || c.Category == models.CategoryPSU {
			continue
		}
		if rec, ok := c.Specs.Number(models.SpecRecommendedPSU); ok {
			draw += rec
			affected = append(affected, c.ID)
			continue
		}
		if tdp, ok := c.Specs.Number(models.SpecTDP); ok {
			draw += tdp
			affected = append(affected, c.ID)
		}
	}
	if draw == 0 {
		return "", nil, false
	}

	required := int64(math.Ceil(draw * psuHeadroom))
	if int64(capacity) >= required {
		return "", nil, false
	}
	msg := fmt.Sprintf("power supply delivers %dW but the build needs about %dW (%dW short)",
		int64(capacity), required, required-int64(capacity))
	return msg, affected, true
}

func checkGPUClearance(p parts) (string, []string, bool) {
	gpu, pcCase := p[models.CategoryGPU], p[models.CategoryCase]
	length, ok := gpu.Specs.Number(models.SpecLength)
	if !ok {
		return "", nil, false
	}
	maxLength, ok := pcCase.Specs.Number(models.SpecMaxGpuLength)
	if !ok {
		return "", nil, false
	}
	if length <= maxLength {
		return "", nil, false
	}
	msg := fmt.Sprintf("graphics card is %.0fmm long but the case fits up to %.0fmm", length, maxLength)
	return msg, []string{gpu.ID, pcCase.ID}, true
}

func checkCooling(p parts) (string, []string, bool) {
	cpu := p[models.CategoryCPU]
	cpuTDP, ok := cpu.Specs.Number(models.SpecTDP)
	if !ok {
		return "", nil, false
	}

	cooler := p[models.CategoryCooling]
	if cooler == nil {
		msg := fmt.Sprintf("no cooler selected for a %.0fW TDP CPU", cpuTDP)
		return msg, []string{cpu.ID}, true
	}
	capacity, ok := cooler.Specs.Number(models.SpecTDP)
	if !ok {
		return "", nil, false
	}
	if capacity >= cpuTDP {
		return "", nil, false
	}
	msg := fmt.Sprintf("cooler is rated for %.0fW but the CPU draws %.0fW", capacity, cpuTDP)
	return msg, []string{cpu.ID, cooler.ID}, true
}

var chipsetTokens = map[string][]string{
	"intel": {"intel", "lga"},
	"amd":   {"amd", "am4", "am5", "ryzen"},
}

// checkChipsetHeuristic is a safety net over unstructured motherboard text:
// it only warns when the board carries no recognizable marker for the CPU's
// brand family.
func checkChipsetHeuristic(p parts) (string, []string, bool) {
	cpu, board := p[models.CategoryCPU], p[models.CategoryMotherboard]

	family := ""
	cpuText := strings.ToLower(cpu.Brand + " " + cpu.Name)
	if strings.Contains(cpuText, "intel") {
		family = "intel"
	} else if strings.Contains(cpuText, "amd") || strings.Contains(cpuText, "ryzen") {
		family = "amd"
	}
	if family == "" {
		return "", nil, false
	}

	boardText := strings.ToLower(board.Brand + " " + board.Name)
	if chipset, ok := board.Specs.String("chipset"); ok {
		boardText += " " + strings.ToLower(chipset)
	}
	if socket, ok := board.Specs.String(models.SpecSocket); ok {
		boardText += " " + strings.ToLower(socket)
	}
	for _, token := range chipsetTokens[family] {
		if strings.Contains(boardText, token) {
			return "", nil, false
		}
	}
	display := map[string]string{"intel": "Intel", "amd": "AMD"}
	msg := fmt.Sprintf("motherboard does not look like a matching %s board for this CPU", display[family])
	return msg, []string{cpu.ID, board.ID}, true
}

var requiredCategories = []models.Category{
	models.CategoryCPU,
	models.CategoryMotherboard,
	models.CategoryRAM,
	models.CategoryStorage,
}

func checkCompleteness(p parts) (string, []string, bool) {
	var missing []string
	for _, cat := range requiredCategories {
		if p[cat] == nil {
			missing = append(missing, string(cat))
		}
	}
	if len(missing) == 0 {
		return "", nil, false
	}
	return "build is missing: " + strings.Join(missing, ", "), nil, true
}
