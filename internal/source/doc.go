// Package source читает входные файлы: кошельки и прокси.
//
// Кошельки загружаются один раз при старте. Поддерживаемые форматы
// выбираются по расширению:
//
//	.json        — массив [{"address": "...", "privateKey": "..."}]
//	.yaml, .yml  — список или {wallets: [...]} с теми же полями
//	иначе        — по одному приватному ключу в строке, адрес выводится из ключа
//
// Прокси — по одному в строке (форматы см. transport.ParseProxy).
// Пустые строки и строки, начинающиеся с '#', пропускаются.
package source
