package services

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultCalculatorHistory is how many results the calculator remembers.
const DefaultCalculatorHistory = 10

var (
	ErrDivideByZero = errors.New("cannot divide by zero")
	ErrUnknownKey   = errors.New("unknown calculator key")
)

// Calculator is the four-function scratch calculator. It is independent of
// the report; its history is the only thing it keeps.
type Calculator struct {
	Display    string   `json:"display"`
	History    []string `json:"history"`
	MaxHistory int      `json:"-"`

	previous    *float64
	operation   string
	resetOnNext bool
}

func NewCalculator(maxHistory int) *Calculator {
	if maxHistory <= 0 {
		maxHistory = DefaultCalculatorHistory
	}
	return &Calculator{Display: "0", MaxHistory: maxHistory}
}

// normalizeOperator maps the accepted spellings of an operator onto the
// symbol shown in history.
func normalizeOperator(key string) (string, bool) {
	switch key {
	case "+":
		return "+", true
	case "-", "−":
		return "-", true
	case "*", "x", "×":
		return "×", true
	case "/", "÷":
		return "÷", true
	}
	return "", false
}

// Press applies one key: a digit, ".", an operator, "=", "C" or "AC".
func (c *Calculator) Press(key string) error {
	if op, ok := normalizeOperator(key); ok {
		return c.operate(op)
	}

	switch {
	case key == "=":
		return c.equals()
	case key == "C":
		c.Display = "0"
		c.resetOnNext = false
	case key == "AC":
		c.clearAll()
	case key == ".":
		c.input(key)
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		c.input(key)
	default:
		return ErrUnknownKey
	}
	return nil
}

func (c *Calculator) input(key string) {
	if c.resetOnNext {
		c.Display = key
		if key == "." {
			c.Display = "0."
		}
		c.resetOnNext = false
		return
	}
	if key == "." && strings.Contains(c.Display, ".") {
		return
	}
	if c.Display == "0" && key != "." {
		c.Display = key
		return
	}
	c.Display += key
}

func (c *Calculator) value() float64 {
	v, err := strconv.ParseFloat(c.Display, 64)
	if err != nil {
		return 0
	}
	return v
}

func (c *Calculator) operate(op string) error {
	if c.operation != "" && !c.resetOnNext {
		if err := c.equals(); err != nil {
			return err
		}
	}
	v := c.value()
	c.previous = &v
	c.operation = op
	c.resetOnNext = true
	return nil
}

func (c *Calculator) equals() error {
	if c.operation == "" || c.previous == nil {
		return nil
	}

	prev, current := *c.previous, c.value()
	var result float64
	switch c.operation {
	case "+":
		result = prev + current
	case "-":
		result = prev - current
	case "×":
		result = prev * current
	case "÷":
		if current == 0 {
			c.clearAll()
			return ErrDivideByZero
		}
		result = prev / current
	}

	c.addHistory(formatCalcNumber(prev) + " " + c.operation + " " + formatCalcNumber(current) + " = " + formatCalcNumber(result))
	c.Display = formatCalcNumber(result)
	c.previous = nil
	c.operation = ""
	c.resetOnNext = true
	return nil
}

func (c *Calculator) clearAll() {
	c.Display = "0"
	c.previous = nil
	c.operation = ""
	c.resetOnNext = false
}

func (c *Calculator) addHistory(entry string) {
	c.History = append([]string{entry}, c.History...)
	if len(c.History) > c.MaxHistory {
		c.History = c.History[:c.MaxHistory]
	}
}

func (c *Calculator) ClearHistory() {
	c.History = nil
}

// Pending returns the operand and operator waiting for "=", if any.
func (c *Calculator) Pending() string {
	if c.previous == nil || c.operation == "" {
		return ""
	}
	return formatCalcNumber(*c.previous) + " " + c.operation
}

// formatCalcNumber prints whole numbers without decimals and everything else
// with at most 8 decimals.
func formatCalcNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 8, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
