package scv

// Well-known SCV field names. The catalog decides which fields exist in a
// given submission; these constants only anchor the cross-field and
// file-scoped rules that are keyed to specific columns of the SCV format.
const (
	fieldTitle               = "title"
	fieldFirstForename       = "customer_first_forename"
	fieldSecondForename      = "customer_second_forename"
	fieldThirdForename       = "customer_third_forename"
	fieldSurname             = "surname"
	fieldDateOfBirth         = "date_of_birth"
	fieldNationalIDNumber    = "other_national_identity_number"
	fieldNationalIdentifier  = "other_national_identifier"
	fieldCountry             = "country"
	fieldPostcode            = "postcode"
	fieldAccountNumber       = "account_number"
	fieldSCVRecord           = "single_customer_view_record"
	fieldAccountTitle        = "account_title"
	fieldProductType         = "product_type"
	fieldExclusionType       = "exclusion_type"
	fieldCompensatableAmount = "compensatable_amount"
	fieldTransferableDeposit = "transferable_eligible_deposit"
	fieldSterlingBalance     = "account_balance_in_sterling"
	fieldOriginalBalance     = "account_balance_in_original_currency"
	fieldExchangeRate        = "exchange_rate"
	fieldAccountCurrency     = "currency_of_account"
	fieldBranchJurisdiction  = "account_branch_jurisdiction"
	fieldBRRDMarking         = "bank_recovery_and_resolution_marking"
	fieldStructuredDeposit   = "structured_deposit_accounts"

	addressLinePrefix = "address_line_"
	maxAddressLine    = 6
)

// addressLineField returns the column name for address line n.
func addressLineField(n int) string {
	return addressLinePrefix + string(rune('0'+n))
}

// addressLineNumber returns the line number for an address line column, or 0
// when the column is not an address line.
func addressLineNumber(column string) int {
	if len(column) != len(addressLinePrefix)+1 {
		return 0
	}
	if column[:len(addressLinePrefix)] != addressLinePrefix {
		return 0
	}
	n := int(column[len(column)-1] - '0')
	if n < 1 || n > maxAddressLine {
		return 0
	}
	return n
}
