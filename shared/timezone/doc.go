// Package timezone keeps every timestamp in the single configured application
// timezone. Use timezone.Now and timezone.Parse instead of the time package
// equivalents so stored and rendered instants agree with the server clock.
package timezone
