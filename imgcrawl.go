// Package imgcrawl provides a CLI-based image harvester. It crawls a website
// breadth-first from a start URL up to a bounded depth, records every image
// referenced on the visited pages, and saves the image bytes alongside an
// images.json listing.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, bloom/, sqlite/).
package imgcrawl
