package logic

var PrintStats = printStats
