// Package api реализует HTTP API сервера Sequent.
//
// API построен на стандартном net/http с pattern routing (Go 1.22+).
// Определения workflow хранятся в PostgreSQL; запуски выполняются
// синхронно внутри запроса и нигде не персистятся.
package api
