// Package batch submits many tax records from one YAML file.
//
// # File Format
//
//	name: april-intake
//	submissions:
//	  - user_id: U1
//	    ic_number: "001234567890"
//	    password: "7890"
//	    income: 60000
//	    spouse_income: 3000
//	    claims:
//	      child: 2
//	      medical: 10000
//
// Quote ic_number and password so YAML keeps leading zeros.
//
// Each submission goes through the same gates as an interactive session:
// password check, entry check against the ledger as it stands at that point
// in the batch, relief aggregation, tax assessment and upsert. A failed gate
// marks that submission and the batch moves on.
//
// spouse_income, when present, decides the spouse claim: an eligible spouse
// sets it to the full spouse relief, an ineligible one removes any spouse
// claim.
package batch
