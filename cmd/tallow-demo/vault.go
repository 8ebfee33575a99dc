package main

import (
	"fmt"
	"os"

	"github.com/tallowteam/Tallow-sub001/pkg/vault"
)

func vaultCommand() {
	fs := vaultFlagSet()
	password := fs.String("password", "correct horse battery staple", "Vault password")
	dir := fs.String("dir", "", "Directory backing the vault (temp dir if empty)")
	_ = fs.Parse(os.Args[2:])

	fmt.Println("=== Tallow encrypted vault demo ===")

	vaultDir := *dir
	if vaultDir == "" {
		tmp, err := os.MkdirTemp("", "tallow-vault-demo-")
		if err != nil {
			fatal("MkdirTemp", err)
		}
		defer os.RemoveAll(tmp)
		vaultDir = tmp
	}

	storage, err := vault.NewFileStorage(vaultDir)
	if err != nil {
		fatal("NewFileStorage", err)
	}

	v, err := vault.Open([]byte(*password), storage, 0, 0)
	if err != nil {
		fatal("Open", err)
	}

	payload := []byte("a secret the demo just stored")
	md := vault.Metadata{Label: "demo-note", Type: "text"}
	if err := v.Store("demo-entry", payload, md, 0); err != nil {
		fatal("Store", err)
	}
	fmt.Printf("Stored entry %q under %s\n", "demo-entry", vaultDir)

	v.Lock()
	fmt.Println("Locked vault, reopening with the same password...")

	storage2, err := vault.NewFileStorage(vaultDir)
	if err != nil {
		fatal("NewFileStorage (reopen)", err)
	}
	v2, err := vault.Open([]byte(*password), storage2, 0, 0)
	if err != nil {
		fatal("Open (reopen)", err)
	}

	got, ok, err := v2.Retrieve("demo-entry")
	if err != nil {
		fatal("Retrieve", err)
	}
	if !ok {
		fatal("Retrieve", fmt.Errorf("entry not found after reopen"))
	}
	if string(got) != string(payload) {
		fatal("verify", fmt.Errorf("retrieved payload does not match what was stored"))
	}

	fmt.Printf("Retrieved after reopen: %q\n", string(got))

	list, err := v2.List()
	if err != nil {
		fatal("List", err)
	}
	fmt.Printf("Vault now holds %d entries\n", len(list))
}
