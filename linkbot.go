// Package linkbot automates a professional social network through a real
// browser: it logs in, deletes comments written by one author and collects
// people-search results into structured records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, excelize/), and the
// workflows built on top of them live in resolve/, extract/, comments/,
// search/, auth/ and profile/.
package linkbot
