// Package cli реализует инструмент командной строки Trax.
//
// # Обзор
//
// CLI помогает готовить и наблюдать worker: проверяет конфигурацию,
// показывает кошельки с назначенными прокси, импортирует кошельки
// в PostgreSQL, читает поток событий из RabbitMQ и опрашивает status API.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для status API worker'а.
//
//	client := cli.NewClient("http://localhost:8090")
//	status, err := client.Status(ctx)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: trax wallets list --json | jq .
//
// ## Commands
//
//   - config: check
//   - wallets: list, import
//   - events: tail
//   - status
//
// Каждая группа создаётся через фабричную функцию (NewWalletsCmd и т.д.),
// принимающую Deps — замыкания для ленивого создания Client, Output
// и Config после парсинга PersistentFlags.
package cli
