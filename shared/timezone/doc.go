// Package timezone pins every wall-clock conversion to the location named by APP_TIMEZONE.
//
// Reservation boundaries arrive as ISO-8601 dates or date-times. A bare date such as
// "2025-06-01" means midnight in the application timezone, so a stay from 2025-06-01 to
// 2025-06-05 covers exactly four nights regardless of the client's zone:
//
//	start, _ := timezone.ParseISO8601("2025-06-01")
//	end, _ := timezone.ParseISO8601("2025-06-05T00:00:00+07:00")
//
// Use standard IANA names ("UTC", "Asia/Jakarta", "Europe/London"). An unknown name falls
// back to UTC.
package timezone
