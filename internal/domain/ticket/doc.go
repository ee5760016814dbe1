// Package ticket formats plain-text thermal tickets.
// A 58mm roll fits 32 columns of the ticket font and an 80mm roll 48.
// Widths are measured in display cells, so East Asian wide runes count twice.
package ticket
