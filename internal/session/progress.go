package session

import "regexp"

// stepPercent maps backend pipeline step codes to a coarse completion
// percentage. Unknown or missing codes map to zero.
var stepPercent = map[int]int{
	0:  0,
	1:  5,
	2:  15,
	3:  25,
	4:  35,
	5:  45,
	6:  60,
	7:  75,
	8:  85,
	9:  95,
	10: 100,
}

var percentPattern = regexp.MustCompile(`(\d+)%`)

// PercentFor resolves the displayed progress percentage. A percentage
// embedded directly in the status text takes precedence over the step table.
func PercentFor(status string, step int, hasStep bool) int {
	if match := percentPattern.FindStringSubmatch(status); match != nil {
		value := 0
		for _, r := range match[1] {
			value = value*10 + int(r-'0')
		}
		if value <= 100 {
			return value
		}
	}
	if hasStep {
		if pct, ok := stepPercent[step]; ok {
			return pct
		}
	}
	return 0
}
