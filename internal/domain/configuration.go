package domain

import "github.com/shopspring/decimal"

// Configuration is the parsed input file: the persons covered, the
// full transaction and income history, optional current prices for
// deemed disposal estimates, and optional rule overrides.
type Configuration struct {
	Persons      []Person                   `yaml:"persons" json:"persons"`
	Transactions []Transaction              `yaml:"transactions" json:"transactions"`
	Income       []IncomeEvent              `yaml:"income" json:"income"`
	Prices       map[string]decimal.Decimal `yaml:"prices" json:"prices"`
	Rules        TaxRules                   `yaml:"rules" json:"rules"`
}

// PersonNames returns the declared person names in input order.
func (c *Configuration) PersonNames() []string {
	names := make([]string, 0, len(c.Persons))
	for _, p := range c.Persons {
		names = append(names, p.Name)
	}
	return names
}
