// Package mq публикует результаты работы worker'а в RabbitMQ.
//
// Структура:
//   - connection.go — соединение с автоматическим reconnect
//   - topology.go   — exchange и очереди событий
//   - publisher.go  — события wallet.processed и sweep.completed
//   - consumer.go   — чтение событий (CLI events tail)
//
// Топология:
//
//	trax.events (topic)
//	├── trax.wallets.processed [routing: wallet.processed]
//	└── trax.sweeps.completed  [routing: sweep.completed]
//
// RabbitMQ опционален: без RABBITMQ_URL worker работает без событий.
package mq
