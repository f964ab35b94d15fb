package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"signet/core/types"
	"signet/crypto"
)

var rpcEndpoint = defaultRPCEndpoint() // Defaults to localhost, can be overridden via SIGNET_RPC_URL or --rpc flag

func defaultRPCEndpoint() string {
	if url := strings.TrimSpace(os.Getenv("SIGNET_RPC_URL")); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func main() {
	args := os.Args[1:]
	args, err := applyGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(args) < 1 {
		printUsage()
		return
	}

	command := args[0]
	switch command {
	case "generate-key":
		if len(args) < 2 {
			fmt.Println("Error: Please provide an output file for the key.")
			printUsage()
			return
		}
		generateKey(args[1])
	case "address":
		if len(args) < 2 {
			fmt.Println("Error: Please provide a key file.")
			printUsage()
			return
		}
		showAddress(args[1])
	case "balance":
		if len(args) < 2 {
			fmt.Println("Error: Please provide an address.")
			printUsage()
			return
		}
		queryInteger("ledger_getBalance", args[1], "Balance")
	case "nonce":
		if len(args) < 2 {
			fmt.Println("Error: Please provide an address.")
			printUsage()
			return
		}
		queryInteger("ledger_getNonce", args[1], "Nonce")
	case "send":
		if len(args) < 4 {
			fmt.Println("Error: Please provide a recipient, an amount and a key file.")
			printUsage()
			return
		}
		amount, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			fmt.Println("Error: Invalid amount.")
			return
		}
		send(args[1], amount, args[3])
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func applyGlobalFlags(args []string) ([]string, error) {
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--rpc":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--rpc requires a URL")
			}
			i++
			rpcEndpoint = args[i]
		case strings.HasPrefix(arg, "--rpc="):
			rpcEndpoint = strings.TrimPrefix(arg, "--rpc=")
		default:
			rest = append(rest, arg)
		}
	}
	return rest, nil
}

func printUsage() {
	fmt.Println("Usage: signet-cli [--rpc URL] <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  generate-key <file>             Generate a new keypair and save it")
	fmt.Println("  address <key-file>              Show the address for a saved key")
	fmt.Println("  balance <address>               Query an account balance")
	fmt.Println("  nonce <address>                 Query an account's committed nonce")
	fmt.Println("  send <recipient> <amount> <key-file>  Sign and submit a transfer")
}

func generateKey(path string) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fmt.Printf("Error generating key: %v\n", err)
		return
	}
	encoded := hex.EncodeToString(key.Bytes())
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		fmt.Printf("Error saving key: %v\n", err)
		return
	}
	fmt.Printf("Key saved to %s\n", path)
	fmt.Printf("Address: %s\n", key.PubKey().Address())
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("decode key file: %w", err)
	}
	return crypto.PrivateKeyFromBytes(raw)
}

func showAddress(keyFile string) {
	key, err := loadKey(keyFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(key.PubKey().Address())
}

// send queries the sender's committed nonce, signs an intent for the next one
// and submits it. The private key never leaves this process.
func send(recipient string, amount int64, keyFile string) {
	key, err := loadKey(keyFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	sender := key.PubKey().Address()

	to, err := crypto.ParseAddress(recipient)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	var committed uint64
	if err := call("ledger_getNonce", sender.String(), &committed); err != nil {
		fmt.Printf("Error querying nonce: %v\n", err)
		return
	}

	intent := &types.TransactionIntent{
		Sender:    sender,
		Recipient: to,
		Amount:    amount,
		Nonce:     committed + 1,
	}
	tx, err := types.NewSignedTransaction(intent, key)
	if err != nil {
		fmt.Printf("Error signing transaction: %v\n", err)
		return
	}

	env := &types.TxEnvelope{
		Intent: &types.IntentEnvelope{
			Sender:    sender.String(),
			Recipient: to.String(),
			Amount:    &intent.Amount,
			Nonce:     &intent.Nonce,
		},
		Signature:   "0x" + hex.EncodeToString(tx.Signature),
		MessageHash: "0x" + hex.EncodeToString(tx.Hash),
	}

	receipt := &types.Receipt{}
	if err := call("ledger_sendTransaction", env, receipt); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Transfer committed. Balance: %d, nonce: %d\n", receipt.SenderBalance, receipt.NewNonce)
	fmt.Printf("Recipient %s balance: %d\n", receipt.Recipient.Address, receipt.Recipient.NewBalance)
}

func queryInteger(method, address, label string) {
	var value uint64
	if err := call(method, address, &value); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%s: %d\n", label, value)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data,omitempty"`
	} `json:"error"`
}

func call(method string, param any, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  []any{param},
		ID:      1,
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(rpcEndpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	decoded := &rpcResponse{}
	if err := json.NewDecoder(resp.Body).Decode(decoded); err != nil {
		return err
	}
	if decoded.Error != nil {
		if len(decoded.Error.Data) > 0 {
			return fmt.Errorf("%s (%s)", decoded.Error.Message, decoded.Error.Data)
		}
		return fmt.Errorf("%s", decoded.Error.Message)
	}
	if out != nil {
		return json.Unmarshal(decoded.Result, out)
	}
	return nil
}
