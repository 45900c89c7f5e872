// Package chain — on-chain шаг workflow: zap-and-stake нативного баланса.
//
// Staker отправляет EIP-1559 транзакцию в zap-контракт со всем
// нативным балансом за вычетом резерва на газ, ждёт receipt и считает
// застейканную сумму как прирост баланса vault-токена.
//
// Без ZAP_CONTRACT шаг отключён: ZapAndStake возвращает (nil, nil),
// то есть "ничего не застейкано".
package chain
