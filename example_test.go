package activedb_test

import (
	"fmt"
	"log"

	activedb "github.com/MasonSandau/ActiveDB"
	"github.com/MasonSandau/ActiveDB/engine"
)

// Example demonstrates the basic lifecycle: tables, rows, access counting
// and a background reorganization.
func Example() {
	db, err := activedb.Open()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.AddTable("users"); err != nil {
		log.Fatal(err)
	}
	for _, key := range []string{"alice", "bob"} {
		if err := db.AddRow("users", key, engine.Row{"password": "s3cret"}); err != nil {
			log.Fatal(err)
		}
	}

	// bob is the hot row.
	for i := 0; i < 3; i++ {
		if err := db.Increment("users", "bob"); err != nil {
			log.Fatal(err)
		}
	}

	if err := db.Reorganize(); err != nil {
		log.Fatal(err)
	}
	db.WaitForReorganization()

	keys, err := db.Keys("users")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(keys)
	// Output: [bob alice]
}

// Example_credential demonstrates credential lookup with a custom secret
// field.
func Example_credential() {
	db, err := activedb.Open(activedb.WithSecretField("api_key"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.AddTable("services"); err != nil {
		log.Fatal(err)
	}
	if err := db.AddRow("services", "billing", engine.Row{"api_key": "k-1234"}); err != nil {
		log.Fatal(err)
	}

	cred, err := db.Credential("services", "billing")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cred.Key, cred.Secret)
	// Output: billing k-1234
}
