// Package market serves the static instrument table shown on the trading screen.
// Prices are fixed; no orders are placed.
package market

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownSymbol   = errors.New("unknown symbol")
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
	ErrInvalidSide     = errors.New("side must be buy or sell")
)

// Sort orders accepted by Sorted
const (
	SortMarketCap = "mcap"
	SortPrice     = "price"
	SortChange    = "change"
)

// Coin is one row of the market table
type Coin struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Change    decimal.Decimal `json:"change"` // 24h change in percent
	MarketCap string          `json:"market_cap"`
	Volume    string          `json:"volume"`
	Trend     string          `json:"trend"` // up or down
}

func coin(symbol, name, price, change, mcap, vol string) Coin {
	c := Coin{
		Symbol:    symbol,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Change:    decimal.RequireFromString(change),
		MarketCap: mcap,
		Volume:    vol,
		Trend:     "up",
	}
	if c.Change.IsNegative() {
		c.Trend = "down"
	}
	return c
}

// coins is ordered by market cap rank
var coins = []Coin{
	coin("BTC", "Bitcoin", "104832.50", "2.34", "2.07T", "38.2B"),
	coin("ETH", "Ethereum", "3891.20", "1.82", "468B", "18.1B"),
	coin("BNB", "BNB", "712.45", "-0.54", "106B", "2.1B"),
	coin("SOL", "Solana", "198.30", "5.67", "91B", "4.8B"),
	coin("XRP", "Ripple", "2.41", "-1.23", "138B", "6.2B"),
	coin("ADA", "Cardano", "1.12", "3.45", "40B", "1.9B"),
	coin("DOGE", "Dogecoin", "0.412", "-2.11", "60B", "3.4B"),
	coin("DOT", "Polkadot", "9.87", "1.56", "14B", "0.8B"),
	coin("AVAX", "Avalanche", "42.15", "4.21", "17B", "1.2B"),
	coin("LINK", "Chainlink", "18.93", "-0.89", "12B", "0.9B"),
	coin("MATIC", "Polygon", "1.34", "2.78", "13B", "0.7B"),
	coin("UNI", "Uniswap", "14.52", "1.12", "11B", "0.5B"),
}

// Coins returns the table in market cap order
func Coins() []Coin {
	return append([]Coin(nil), coins...)
}

// Sorted returns the table ordered by price (desc), absolute change (desc) or, for
// anything else, market cap rank
func Sorted(by string) []Coin {
	out := Coins()
	switch by {
	case SortPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortChange:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Change.Abs().GreaterThan(out[j].Change.Abs()) })
	}
	return out
}

// Lookup finds a coin by symbol, case-insensitively
func Lookup(symbol string) (Coin, bool) {
	for _, c := range coins {
		if strings.EqualFold(c.Symbol, symbol) {
			return c, true
		}
	}
	return Coin{}, false
}

// Quote is the price of a hypothetical order
type Quote struct {
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// NewQuote prices quantity units of symbol at the table price
func NewQuote(symbol, side, quantity string) (*Quote, error) {
	c, ok := Lookup(symbol)
	if !ok {
		return nil, ErrUnknownSymbol
	}
	side = strings.ToLower(strings.TrimSpace(side))
	if side != "buy" && side != "sell" {
		return nil, ErrInvalidSide
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil || !qty.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	return &Quote{
		Symbol:   c.Symbol,
		Side:     side,
		Quantity: qty,
		Price:    c.Price,
		Total:    qty.Mul(c.Price),
	}, nil
}

// Favorites keeps each user's starred symbols in a Redis set
type Favorites struct {
	rdb *redis.Client
}

// NewFavorites creates Favorites backed by rdb
func NewFavorites(rdb *redis.Client) *Favorites {
	return &Favorites{rdb: rdb}
}

func favoritesKey(userID string) string {
	return "market:favorites:" + userID
}

// Toggle stars or unstars symbol. It returns the canonical symbol and whether it is now starred.
func (f *Favorites) Toggle(ctx context.Context, userID, symbol string) (string, bool, error) {
	c, ok := Lookup(symbol)
	if !ok {
		return "", false, ErrUnknownSymbol
	}
	key := favoritesKey(userID)
	removed, err := f.rdb.SRem(ctx, key, c.Symbol).Result()
	if err != nil {
		return "", false, err
	}
	if removed > 0 {
		return c.Symbol, false, nil
	}
	if err := f.rdb.SAdd(ctx, key, c.Symbol).Err(); err != nil {
		return "", false, err
	}
	return c.Symbol, true, nil
}

// List returns the user's starred symbols in table order
func (f *Favorites) List(ctx context.Context, userID string) ([]string, error) {
	members, err := f.rdb.SMembers(ctx, favoritesKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	starred := make(map[string]bool, len(members))
	for _, m := range members {
		starred[m] = true
	}
	out := make([]string, 0, len(members))
	for _, c := range coins {
		if starred[c.Symbol] {
			out = append(out, c.Symbol)
		}
	}
	return out, nil
}
