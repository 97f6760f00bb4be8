// Package tracker maintains an in-memory table of live SSDP announcements.
//
// Each alive or update notification inserts or refreshes the entry for its
// USN and pushes out its expiry by the announced max-age. A byebye removes
// the entry at once; entries whose max-age lapses are removed by Sweep.
// Nothing is persisted.
package tracker
