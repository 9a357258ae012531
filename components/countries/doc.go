// Package countries provides deterministic ISO 3166-1 country data, search
// helpers, and a small net/http handler that returns JSON options for
// country fields.
//
// The default handler responds to GET and HEAD requests and supports query
// and limit parameters to filter results. The backing data is loaded from
// the embedded list under data/countries.txt.
package countries
