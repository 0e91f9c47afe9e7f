// Package domain contains the core entities of the post generator:
// scraped content records, trained writing profiles, and the generation
// request/result pair, independent of any transport or storage.
package domain
