// Package filter compiles compact per-field filter strings such as "lt_10",
// "not_null", "1_bt_5", "lk_*x*" or "a|b" into boolean conditions.
//
// A raw value is split on "|" into branches. Each branch may start with
// "not_" and then select an operator: "null", "eq_", "lt_", "gt_", an infix
// "_bt_" for inclusive ranges, or "lk_" for patterns on text fields where "*"
// matches any run of characters. Text comparisons are case-insensitive.
//
// Conditions are produced through a Backend, so the package knows nothing of
// SQL or any other query language
package filter
