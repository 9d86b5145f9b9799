// AngelaMos | 2026
// export_test.go

package dashboard

var FillDays = fillDays
