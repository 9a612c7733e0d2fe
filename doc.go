// Package equity reconciles equity-compensation events (vesting, option
// exercises, open-market sales) into a single chronological ledger of buy and
// sell records priced in USD and GBP.
//
// The engine works entirely on pre-fetched, in-memory data: a business-day
// calendar, a USD price series and a USD/GBP rate series. Nominal event dates
// are shifted to the next business day, prices and rates are looked up for
// that day, and near-duplicate same-day sell lots are merged into
// weighted-average records.
package equity
