package shapeshifttest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Coins known to the fake. Every ordered combination of two distinct
// available coins is a valid pair.
var coins = map[string]map[string]string{
	"BTC": {"name": "Bitcoin", "symbol": "BTC", "image": "https://shapeshift.io/images/coins/bitcoin.png", "status": "available"},
	"LTC": {"name": "Litecoin", "symbol": "LTC", "image": "https://shapeshift.io/images/coins/litecoin.png", "status": "available"},
	"ETH": {"name": "Ether", "symbol": "ETH", "image": "https://shapeshift.io/images/coins/ether.png", "status": "available"},
	"XRP": {"name": "Ripple", "symbol": "XRP", "image": "https://shapeshift.io/images/coins/ripple.png", "status": "unavailable"},
}

// Rate is the fixed rate the fake quotes for every pair.
const Rate = "70.12345678"

// Addresses with special meaning to the fake.
const (
	// PendingAddress is a deposit address with a pending exchange.
	PendingAddress = "1PendingDepositAddr"
	// CompleteAddress is a deposit address whose exchange has completed.
	CompleteAddress = "1CompleteDepositAddr"
	// PrivateKey is the only affiliate private key the fake accepts.
	PrivateKey = "test-private-key"
)

func knownPair(s string) (string, bool) {
	in, out, ok := strings.Cut(s, "_")
	if !ok || in == "" || out == "" || strings.EqualFold(in, out) {
		return "", false
	}
	for _, sym := range []string{in, out} {
		c, ok := coins[strings.ToUpper(sym)]
		if !ok || c["status"] != "available" {
			return "", false
		}
	}
	return strings.ToLower(s), true
}

func handleRate(w http.ResponseWriter, r *http.Request) {
	pair, ok := knownPair(vars(r)["pair"])
	if !ok {
		writeError(w, "Unknown pair")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"pair": pair, "rate": Rate})
}

func handleLimit(w http.ResponseWriter, r *http.Request) {
	pair, ok := knownPair(vars(r)["pair"])
	if !ok {
		writeError(w, "Unknown pair")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"pair": pair, "limit": "1.2345", "min": "0.02621232"})
}

func marketInfo(pair string) map[string]any {
	return map[string]any{"pair": pair, "rate": 70.12345678, "limit": 1.2345, "min": 0.02621232, "minerFee": 0.0001}
}

func handleMarketInfo(w http.ResponseWriter, r *http.Request) {
	if raw, ok := vars(r)["pair"]; ok {
		pair, ok := knownPair(raw)
		if !ok {
			writeError(w, "Unknown pair")
			return
		}
		writeJSON(w, http.StatusOK, marketInfo(pair))
		return
	}
	all := []map[string]any{}
	for in, ci := range coins {
		for out, co := range coins {
			if in != out && ci["status"] == "available" && co["status"] == "available" {
				all = append(all, marketInfo(strings.ToLower(in+"_"+out)))
			}
		}
	}
	writeJSON(w, http.StatusOK, all)
}

func handleRecentTx(w http.ResponseWriter, r *http.Request) {
	n := 5
	if raw, ok := vars(r)["max"]; ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 50 {
			writeError(w, "Invalid max")
			return
		}
		n = v
	}
	txs := make([]map[string]any, n)
	for i := range txs {
		txs[i] = map[string]any{"curIn": "BTC", "curOut": "LTC", "amount": 0.5, "timestamp": 1.5e9 + float64(i)}
	}
	writeJSON(w, http.StatusOK, txs)
}

func handleTxStat(w http.ResponseWriter, r *http.Request) {
	addr := vars(r)["address"]
	switch addr {
	case PendingAddress:
		writeJSON(w, http.StatusOK, map[string]any{"status": "received", "address": addr, "incomingCoin": 0.5, "incomingType": "BTC"})
	case CompleteAddress:
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "complete", "address": addr, "withdraw": "LWithdrawAddr",
			"incomingCoin": 0.5, "incomingType": "BTC", "outgoingCoin": "35.06172839", "outgoingType": "LTC",
			"transaction": "f1c2e3",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"status": "no_deposits", "address": addr})
	}
}

func handleTimeRemaining(w http.ResponseWriter, r *http.Request) {
	if vars(r)["address"] != PendingAddress {
		writeJSON(w, http.StatusOK, map[string]any{"status": "expired", "seconds_remaining": 0})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "pending", "seconds_remaining": "600"})
}

func handleGetCoins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, coins)
}

func transaction(output string) map[string]any {
	return map[string]any{
		"inputTXID": "in-tx", "inputAddress": CompleteAddress, "inputCurrency": "BTC", "inputAmount": 0.5,
		"outputTXID": "f1c2e3", "outputAddress": output, "outputCurrency": "LTC", "outputAmount": "35.06172839",
		"shiftRate": Rate, "status": "complete",
	}
}

func handleTxByAPIKey(w http.ResponseWriter, r *http.Request) {
	if vars(r)["apiKey"] != PrivateKey {
		writeError(w, "Unknown API key")
		return
	}
	writeJSON(w, http.StatusOK, []map[string]any{transaction("LWithdrawAddr")})
}

func handleTxByAddress(w http.ResponseWriter, r *http.Request) {
	v := vars(r)
	if v["apiKey"] != PrivateKey {
		writeError(w, "Unknown API key")
		return
	}
	writeJSON(w, http.StatusOK, []map[string]any{transaction(v["address"])})
}

func handleValidateAddress(w http.ResponseWriter, r *http.Request) {
	v := vars(r)
	if _, ok := coins[strings.ToUpper(v["coin"])]; !ok {
		writeJSON(w, http.StatusOK, map[string]any{"isvalid": false, "error": "Unknown coin"})
		return
	}
	if len(v["address"]) < 6 {
		writeJSON(w, http.StatusOK, map[string]any{"isvalid": false, "error": "invalid address"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"isvalid": true})
}

func bodyOf(r *http.Request) map[string]any {
	var m map[string]any
	_ = jsonDecode(r, &m)
	return m
}

func str(m map[string]any, k string) string {
	s, _ := m[k].(string)
	return s
}

func handleShift(w http.ResponseWriter, r *http.Request) {
	b := bodyOf(r)
	pair, ok := knownPair(str(b, "pair"))
	if !ok {
		writeError(w, "Unknown pair")
		return
	}
	if str(b, "withdrawal") == "" {
		writeError(w, "Invalid withdrawal address")
		return
	}
	in, out, _ := strings.Cut(pair, "_")
	res := map[string]any{
		"deposit": PendingAddress, "depositType": strings.ToUpper(in),
		"withdrawal": str(b, "withdrawal"), "withdrawalType": strings.ToUpper(out),
	}
	if k := str(b, "apiKey"); k != "" {
		res["apiPubKey"] = k
	}
	writeJSON(w, http.StatusOK, res)
}

func handleMail(w http.ResponseWriter, r *http.Request) {
	b := bodyOf(r)
	if str(b, "email") == "" || str(b, "txid") == "" {
		writeError(w, "email and txid are required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"email": map[string]string{"status": "success", "message": "Email receipt sent"}})
}

func handleSendAmount(w http.ResponseWriter, r *http.Request) {
	b := bodyOf(r)
	pair, ok := knownPair(str(b, "pair"))
	if !ok {
		writeError(w, "Unknown pair")
		return
	}
	amount := fmt.Sprint(b["amount"])
	quote := map[string]any{
		"pair": pair, "withdrawalAmount": amount, "depositAmount": "0.01426076",
		"expiration": 1700000600000, "quotedRate": Rate, "maxLimit": 1.2345, "minerFee": "0.0001",
	}
	if wd := str(b, "withdrawal"); wd != "" {
		quote["withdrawal"] = wd
		quote["deposit"] = PendingAddress
	}
	if k := str(b, "apiKey"); k != "" {
		quote["apiPubKey"] = k
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": quote})
}

func handleCancelPending(w http.ResponseWriter, r *http.Request) {
	if str(bodyOf(r), "address") != PendingAddress {
		writeError(w, "Unable to find pending transaction")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"success": "Pending Transaction cancelled"})
}
