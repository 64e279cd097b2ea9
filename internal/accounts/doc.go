// Package accounts defines the declarative account record model.
//
// An accounts file is a TOML document. Each [accounts.<name>] table holds
// plain fields; a nested secrets table holds concealed secret values; a
// nested generated table declares fields derived from the file's master
// seed. String values may reference other fields as {name} or {name.key},
// resolved through an injectable expression evaluator.
//
//	master_seed = "conceal:..."
//	recipients = ["age1..."]
//
//	[accounts.bank]
//	username = "ariel"
//	url = "https://bank.example.com"
//	checking = "12345678"
//	verbal = "{username}-{checking}"
//
//	[accounts.bank.secrets]
//	pin = "conceal:MzE0MQ=="
//
//	[accounts.bank.generated.passcode]
//	length = 20
//	charset = "printable"
//
// Parse validates everything up front: concealed values must decode,
// generation specs must name a known charset, and every reference must
// resolve. A file that parses will not fail later at disclosure time.
package accounts
