package cart

import "fmt"

// Summary is the payload handed to the payment collaborator.
type Summary struct {
	Amount     int    `json:"amount"`
	OrderLabel string `json:"order_label"`
	Lines      []Line `json:"lines"`
}

// BuildSummary collects every ACTIVE selected line of the view. It returns
// ErrEmptySelection when there is nothing to pay for.
func BuildSummary(v View) (*Summary, error) {
	lines := countedLines(v.Lines())
	if len(lines) == 0 {
		return nil, ErrEmptySelection
	}

	amount := 0
	for _, l := range lines {
		amount += LineTotal(l)
	}

	return &Summary{
		Amount:     amount,
		OrderLabel: OrderLabel(lines),
		Lines:      lines,
	}, nil
}

// OrderLabel names an order after its first line, noting how many more
// lines follow ("외 N건").
func OrderLabel(lines []Line) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return lines[0].DisplayName
	default:
		return fmt.Sprintf("%s 외 %d건", lines[0].DisplayName, len(lines)-1)
	}
}
