// Package scraper provides HTTP fetching and HTML parsing for league statistics pages.
//
// The scraper package fetches a league's statistics page from sport.es and extracts
// one table per statistical category. Each `table.table` element is titled by the
// nearest preceding `h2.title` heading; rows carry a position, a player name taken
// from `span.name`, and a numeric-as-text total. Malformed rows are skipped and
// counted instead of aborting the whole page.
package scraper
