package catalog

import (
	"sort"
	"strconv"
)

// NoCategory is the placeholder category that never reaches cleaned output.
const NoCategory = "<None>"

var categoryNames = map[string]string{
	"1": NoCategory,
	"2": "Energy",
	"3": "Environment",
	"4": "Technology",
}

var subcategoryNames = map[string]string{
	"2":  "Energy Market Forecasts and Analysis",
	"3":  "Pricing, Financial, and Economic Evaluation",
	"4":  "Project Feasibility Analysis",
	"5":  "Power Generation and Transformation",
	"6":  "Electricity Transmission and Distribution",
	"7":  "Oil and Gas Refining and Retailing",
	"8":  "Fuel Supply Options",
	"9":  "Oil and Gas Processing and Pipeline Systems",
	"10": "Renewable and Alternative Energy Options",
	"11": "Energy Efficiency and Conservation",
	"12": "Policy and Regulatory Advice",
	"13": "Energy Studies and Program Design",
	"14": "Environmental Impact and Risk Assessment",
	"15": "Regulatory Compliance, Guidelines, and Due Diligence",
	"16": "Resource Management and Community Development",
	"17": "Environmental Management and Procedures",
	"18": "Environmental Monitoring and Audits",
	"19": "Health, Safety & Environmental Certification and Training",
	"20": "Pollution Control and Waste Minimization",
	"21": "Emission, Effluent, Air, and Water Analysis",
	"22": "Soil and Groundwater Contamination and Remediation",
	"23": "Environmental and Baseline Surveys",
	"24": "Climate Change and Atmospheric Phenomena",
	"25": "Policy, Strategy, and Program Development",
	"26": "IT Solutions and Software Development",
	"27": "Corporate Management, Governance and HRD Support",
	"28": "Technical Studies and Computer Simulations",
	"29": "Technology Marketing",
	"30": "Policy and Project Development",
	"31": "Spatial Information Applications",
	"32": "Transportation Systems",
}

// subcategoryParents holds the parent category per subcategory code, by code range.
var subcategoryParents = buildParents()

// parentByCanonical resolves a canonical subcategory name to its parent category.
var parentByCanonical = buildParentByCanonical()

func buildParents() map[string]string {
	parents := make(map[string]string, len(subcategoryNames))
	for code := range subcategoryNames {
		n, _ := strconv.Atoi(code)
		switch {
		case n >= 2 && n <= 13:
			parents[code] = "Energy"
		case n >= 14 && n <= 25:
			parents[code] = "Environment"
		case n >= 26 && n <= 32:
			parents[code] = "Technology"
		}
	}
	return parents
}

func buildParentByCanonical() map[string]string {
	out := make(map[string]string, len(subcategoryNames))
	for code, name := range subcategoryNames {
		if parent, ok := subcategoryParents[code]; ok {
			out[name] = parent
		}
	}
	return out
}

// CategoryName resolves a numeric category code.
func CategoryName(code string) (string, bool) {
	name, ok := categoryNames[code]
	return name, ok
}

// SubcategoryName resolves a numeric subcategory code.
func SubcategoryName(code string) (string, bool) {
	name, ok := subcategoryNames[code]
	return name, ok
}

// ParentCategory returns the parent category of a subcategory given by name.
// The name is canonicalized first so raw spellings resolve too.
func ParentCategory(subcategory string) (string, bool) {
	parent, ok := parentByCanonical[Canonical(subcategory)]
	return parent, ok
}

// IsNoCategory reports whether name is the "no category" placeholder.
func IsNoCategory(name string) bool {
	return name == NoCategory
}

// SubcategoryNames lists canonical subcategories ordered by code.
func SubcategoryNames() []string {
	codes := make([]int, 0, len(subcategoryNames))
	for code := range subcategoryNames {
		n, _ := strconv.Atoi(code)
		codes = append(codes, n)
	}
	sort.Ints(codes)

	names := make([]string, 0, len(codes))
	for _, n := range codes {
		names = append(names, subcategoryNames[strconv.Itoa(n)])
	}
	return names
}
