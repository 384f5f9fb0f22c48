// Package html extracts readable text from HTML pages. Article content is
// taken with go-readability; pages it cannot parse fall back to regex tag
// stripping, which drops scripts, styles and page chrome.
package html
